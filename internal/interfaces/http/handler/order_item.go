package handler

import (
	appapproval "github.com/garmentflow/backend/internal/application/approval"
	appfulfillment "github.com/garmentflow/backend/internal/application/fulfillment"
	orderapp "github.com/garmentflow/backend/internal/application/order"
	"github.com/gin-gonic/gin"
)

// OrderItemHandler handles the per-garment workflow: material checks, reruns,
// packet assembly and QA video capture.
type OrderItemHandler struct {
	BaseHandler
	orderService    *orderapp.OrderService
	checkService    *appfulfillment.InventoryCheckService
	rerunService    *appfulfillment.RerunService
	packetService   *appfulfillment.PacketService
	approvalService *appapproval.ApprovalService
}

// NewOrderItemHandler creates a new OrderItemHandler
func NewOrderItemHandler(
	orderService *orderapp.OrderService,
	checkService *appfulfillment.InventoryCheckService,
	rerunService *appfulfillment.RerunService,
	packetService *appfulfillment.PacketService,
	approvalService *appapproval.ApprovalService,
) *OrderItemHandler {
	return &OrderItemHandler{
		orderService:    orderService,
		checkService:    checkService,
		rerunService:    rerunService,
		packetService:   packetService,
		approvalService: approvalService,
	}
}

// RegisterRoutes registers order item workflow routes
func (h *OrderItemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/order-items/:id", h.Get)
	rg.POST("/order-items/:id/inventory-check", h.RunInventoryCheck)
	rg.POST("/order-items/:id/inventory-check/rerun", h.RerunInventoryCheck)
	rg.GET("/order-items/:id/packet", h.GetPacket)
	rg.POST("/order-items/:id/packet/verify", h.VerifyPacket)
	rg.POST("/order-items/:id/packet/release", h.ReleasePacket)
	rg.POST("/order-items/:id/video", h.CaptureVideo)
}

// Get returns one order item with its section states
func (h *OrderItemHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid order item ID")
		return
	}

	item, err := h.orderService.GetItem(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appfulfillment.ToOrderItemResponse(item))
}

// RunInventoryCheck runs the full raw-material check for an order item
func (h *OrderItemHandler) RunInventoryCheck(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid order item ID")
		return
	}

	resp, err := h.checkService.RunInventoryCheck(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RerunInventoryCheck reruns the check for the sections that failed earlier
func (h *OrderItemHandler) RerunInventoryCheck(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid order item ID")
		return
	}

	resp, err := h.rerunService.RerunSectionInventoryCheck(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetPacket returns the item's packet
func (h *OrderItemHandler) GetPacket(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid order item ID")
		return
	}

	resp, err := h.packetService.GetByOrderItemID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// VerifyPacket confirms the physical packet against its pick list and moves
// the packed sections into production.
func (h *OrderItemHandler) VerifyPacket(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid order item ID")
		return
	}

	var req appfulfillment.VerifyPacketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.packetService.Verify(c.Request.Context(), id, req.VerifiedBy)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ReleasePacket hands the verified packet to the floor
func (h *OrderItemHandler) ReleasePacket(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid order item ID")
		return
	}

	resp, err := h.packetService.Release(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CaptureVideo attaches a QA video to an item whose sections cleared dyeing
func (h *OrderItemHandler) CaptureVideo(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid order item ID")
		return
	}

	var req appapproval.CaptureVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.approvalService.CaptureVideo(c.Request.Context(), id, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
