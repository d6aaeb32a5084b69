package handler

import (
	bomapp "github.com/garmentflow/backend/internal/application/bom"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BOMHandler handles bill-of-material templates and per-order custom BOMs
type BOMHandler struct {
	BaseHandler
	bomService *bomapp.Service
}

// NewBOMHandler creates a new BOMHandler
func NewBOMHandler(bomService *bomapp.Service) *BOMHandler {
	return &BOMHandler{bomService: bomService}
}

// RegisterRoutes registers BOM routes
func (h *BOMHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bom/templates", h.CreateTemplate)
	rg.GET("/bom/templates", h.GetTemplate)
	rg.POST("/bom/custom", h.CreateCustomBOM)
	rg.GET("/orders/:id/custom-boms", h.ListCustomBOMs)
}

// CreateTemplate creates or replaces the BOM template for a product and size
func (h *BOMHandler) CreateTemplate(c *gin.Context) {
	var req bomapp.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	template, err := h.bomService.CreateTemplate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, template)
}

// GetTemplate returns the BOM template for a product and size
func (h *BOMHandler) GetTemplate(c *gin.Context) {
	productID, err := uuid.Parse(c.Query("product_id"))
	if err != nil {
		h.BadRequest(c, "invalid product ID")
		return
	}
	size := c.Query("size")
	if size == "" {
		h.BadRequest(c, "size is required")
		return
	}

	template, err := h.bomService.GetTemplate(c.Request.Context(), productID, size)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, template)
}

// CreateCustomBOM creates a custom BOM for an order
func (h *BOMHandler) CreateCustomBOM(c *gin.Context) {
	var req bomapp.CreateCustomBOMRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	custom, err := h.bomService.CreateCustomBOM(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, custom)
}

// ListCustomBOMs returns every custom BOM attached to an order
func (h *BOMHandler) ListCustomBOMs(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid order ID")
		return
	}

	customs, err := h.bomService.ListCustomBOMs(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customs)
}
