package handler

import (
	appapproval "github.com/garmentflow/backend/internal/application/approval"
	"github.com/gin-gonic/gin"
)

// ApprovalHandler handles the client-approval and payment stage of an order,
// including the start-from-scratch reset.
type ApprovalHandler struct {
	BaseHandler
	approvalService *appapproval.ApprovalService
	resetService    *appapproval.ResetService
}

// NewApprovalHandler creates a new ApprovalHandler
func NewApprovalHandler(approvalService *appapproval.ApprovalService, resetService *appapproval.ResetService) *ApprovalHandler {
	return &ApprovalHandler{
		approvalService: approvalService,
		resetService:    resetService,
	}
}

// RegisterRoutes registers approval routes
func (h *ApprovalHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/orders/:id/send-to-client", h.SendToClient)
	rg.POST("/orders/:id/client-approved", h.ClientApproved)
	rg.POST("/orders/:id/client-rejected", h.ClientRejected)
	rg.POST("/orders/:id/request-alteration", h.RequestAlteration)
	rg.POST("/orders/:id/request-re-video", h.RequestReVideo)
	rg.POST("/orders/:id/payments", h.RecordPayment)
	rg.POST("/orders/:id/approve-payments", h.ApprovePayments)
	rg.POST("/orders/:id/start-from-scratch", h.StartFromScratch)
}

// SendToClient sends the QA videos of a ready order to the client
func (h *ApprovalHandler) SendToClient(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid order ID")
		return
	}

	resp, err := h.approvalService.SendToClient(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ClientApproved records the client's approval with proof screenshots
func (h *ApprovalHandler) ClientApproved(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid order ID")
		return
	}

	var req appapproval.ClientApprovedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.approvalService.ClientApproved(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ClientRejected records a client rejection
func (h *ApprovalHandler) ClientRejected(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid order ID")
		return
	}

	var req appapproval.ClientRejectedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.approvalService.ClientRejected(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RequestAlteration sends the named sections back to production
func (h *ApprovalHandler) RequestAlteration(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid order ID")
		return
	}

	var req appapproval.RequestAlterationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.approvalService.RequestAlteration(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RequestReVideo asks for a fresh QA video without touching production
func (h *ApprovalHandler) RequestReVideo(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid order ID")
		return
	}

	var req appapproval.RequestReVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.approvalService.RequestReVideo(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RecordPayment records a client payment against the order
func (h *ApprovalHandler) RecordPayment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid order ID")
		return
	}

	var req appapproval.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.approvalService.RecordPayment(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ApprovePayments releases the order for dispatch once payments cover the total
func (h *ApprovalHandler) ApprovePayments(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid order ID")
		return
	}

	resp, err := h.approvalService.ApprovePayments(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// StartFromScratch resets the whole order back to the inventory-check stage
func (h *ApprovalHandler) StartFromScratch(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid order ID")
		return
	}

	var req appapproval.StartFromScratchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.resetService.StartFromScratch(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
