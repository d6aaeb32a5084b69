package handler

import (
	inventoryapp "github.com/garmentflow/backend/internal/application/inventory"
	"github.com/garmentflow/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// InventoryHandler handles the raw-material ledger endpoints
type InventoryHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(stockService *inventoryapp.StockService) *InventoryHandler {
	return &InventoryHandler{stockService: stockService}
}

// AdjustStockRequest corrects the ledger to a counted quantity
type AdjustStockRequest struct {
	CountedQuantity decimal.Decimal `json:"counted_quantity" binding:"required"`
	Note            string          `json:"note"`
}

// RegisterRoutes registers inventory routes
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/inventory/items", h.CreateItem)
	rg.GET("/inventory/items", h.ListItems)
	rg.GET("/inventory/items/:id", h.GetItem)
	rg.POST("/inventory/items/:id/stock-in", h.StockIn)
	rg.POST("/inventory/items/:id/stock-out", h.StockOut)
	rg.POST("/inventory/items/:id/adjust", h.Adjust)
	rg.GET("/inventory/items/:id/movements", h.ListMovements)
}

// CreateItem registers a raw material
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req inventoryapp.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.stockService.CreateItem(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetItem returns one inventory item
func (h *InventoryHandler) GetItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid inventory item ID")
		return
	}

	resp, err := h.stockService.GetItem(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListItems returns inventory items ordered by SKU
func (h *InventoryHandler) ListItems(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.Normalize()

	items, err := h.stockService.ListItems(c.Request.Context(), req.Limit(), req.Offset())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// StockIn receives stock into the ledger
func (h *InventoryHandler) StockIn(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid inventory item ID")
		return
	}

	var req inventoryapp.StockChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.stockService.StockIn(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// StockOut removes stock from the ledger
func (h *InventoryHandler) StockOut(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid inventory item ID")
		return
	}

	var req inventoryapp.StockChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.stockService.StockOut(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Adjust corrects the ledger to a counted quantity
func (h *InventoryHandler) Adjust(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid inventory item ID")
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.stockService.Adjust(c.Request.Context(), id, req.CountedQuantity, req.Note)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListMovements returns the movement history of one inventory item
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid inventory item ID")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.Normalize()

	movements, err := h.stockService.ListMovements(c.Request.Context(), id, req.Limit(), req.Offset())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, movements)
}
