package handler

import (
	procurementapp "github.com/garmentflow/backend/internal/application/procurement"
	"github.com/garmentflow/backend/internal/domain/procurement"
	"github.com/garmentflow/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// ProcurementHandler handles material shortage demands
type ProcurementHandler struct {
	BaseHandler
	demandService *procurementapp.DemandService
}

// NewProcurementHandler creates a new ProcurementHandler
func NewProcurementHandler(demandService *procurementapp.DemandService) *ProcurementHandler {
	return &ProcurementHandler{demandService: demandService}
}

// RegisterRoutes registers procurement routes
func (h *ProcurementHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/procurement/demands", h.ListByStatus)
	rg.POST("/procurement/demands/:id/mark-ordered", h.MarkOrdered)
	rg.POST("/procurement/demands/:id/mark-received", h.MarkReceived)
	rg.POST("/procurement/demands/:id/cancel", h.Cancel)
	rg.GET("/order-items/:id/demands", h.ListByOrderItem)
}

// ListByStatus returns demands filtered by status (defaults to OPEN)
func (h *ProcurementHandler) ListByStatus(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.Normalize()

	status := procurement.DemandStatus(c.DefaultQuery("status", procurement.DemandStatusOpen.String()))
	if !status.IsValid() {
		h.BadRequest(c, "invalid demand status")
		return
	}

	demands, err := h.demandService.ListByStatus(c.Request.Context(), status, req.Limit(), req.Offset())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, demands)
}

// ListByOrderItem returns every demand raised for an order item
func (h *ProcurementHandler) ListByOrderItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid order item ID")
		return
	}

	demands, err := h.demandService.ListByOrderItem(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, demands)
}

// MarkOrdered records that the shortage has been ordered from a supplier
func (h *ProcurementHandler) MarkOrdered(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid demand ID")
		return
	}

	resp, err := h.demandService.MarkOrdered(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// MarkReceived records that the ordered material has arrived
func (h *ProcurementHandler) MarkReceived(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid demand ID")
		return
	}

	resp, err := h.demandService.MarkReceived(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel cancels an open demand
func (h *ProcurementHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid demand ID")
		return
	}

	resp, err := h.demandService.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
