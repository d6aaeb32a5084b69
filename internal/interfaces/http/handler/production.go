package handler

import (
	productionapp "github.com/garmentflow/backend/internal/application/production"
	"github.com/gin-gonic/gin"
)

// ProductionHandler handles stitching and dyeing floor tasks
type ProductionHandler struct {
	BaseHandler
	taskService *productionapp.TaskService
}

// NewProductionHandler creates a new ProductionHandler
func NewProductionHandler(taskService *productionapp.TaskService) *ProductionHandler {
	return &ProductionHandler{taskService: taskService}
}

// AssignTaskRequest assigns a task to a floor worker
type AssignTaskRequest struct {
	WorkerName string `json:"worker_name" binding:"required"`
}

// RejectDyeingRequest sends a dyed section back to the inventory check
type RejectDyeingRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// RegisterRoutes registers production routes
func (h *ProductionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/order-items/:id/tasks", h.ListByOrderItem)
	rg.POST("/production/tasks/:id/assign", h.Assign)
	rg.POST("/production/tasks/:id/start", h.Start)
	rg.POST("/production/tasks/:id/complete", h.Complete)
	rg.POST("/production/tasks/:id/reject-dyeing", h.RejectDyeing)
}

// ListByOrderItem returns every task for an order item
func (h *ProductionHandler) ListByOrderItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid order item ID")
		return
	}

	tasks, err := h.taskService.ListByOrderItem(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tasks)
}

// Assign assigns a task to a worker
func (h *ProductionHandler) Assign(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid task ID")
		return
	}

	var req AssignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.taskService.Assign(c.Request.Context(), id, req.WorkerName); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Start moves a task and its section into work
func (h *ProductionHandler) Start(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid task ID")
		return
	}

	resp, err := h.taskService.Start(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Complete finishes a task and advances its section
func (h *ProductionHandler) Complete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid task ID")
		return
	}

	resp, err := h.taskService.Complete(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RejectDyeing fails a dyeing task and sends the section back to the
// inventory check.
func (h *ProductionHandler) RejectDyeing(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid task ID")
		return
	}

	var req RejectDyeingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.taskService.RejectDyeing(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
