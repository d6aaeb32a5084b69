package handler

import (
	appapproval "github.com/garmentflow/backend/internal/application/approval"
	appfulfillment "github.com/garmentflow/backend/internal/application/fulfillment"
	orderapp "github.com/garmentflow/backend/internal/application/order"
	"github.com/garmentflow/backend/internal/domain/fulfillment"
	"github.com/garmentflow/backend/internal/domain/order"
	"github.com/garmentflow/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// OrderHandler handles order creation and queries
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// OrderDetailResponse is an order together with its items
type OrderDetailResponse struct {
	Order appapproval.OrderResponse          `json:"order"`
	Items []appfulfillment.OrderItemResponse `json:"items"`
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/orders", h.Create)
	rg.GET("/orders", h.List)
	rg.GET("/orders/:id", h.Get)
}

// Create creates an order with its items
func (h *OrderHandler) Create(c *gin.Context) {
	var req orderapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	ord, items, err := h.orderService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toOrderDetailResponse(ord, items))
}

// Get returns an order with its items
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid order ID")
		return
	}

	ord, items, err := h.orderService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toOrderDetailResponse(ord, items))
}

// List returns orders, newest first
func (h *OrderHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.Normalize()

	orders, err := h.orderService.List(c.Request.Context(), req.Limit(), req.Offset())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]appapproval.OrderResponse, 0, len(orders))
	for _, ord := range orders {
		responses = append(responses, appapproval.ToOrderResponse(ord))
	}
	h.Success(c, responses)
}

func toOrderDetailResponse(ord *order.Order, items []*fulfillment.OrderItem) OrderDetailResponse {
	itemResponses := make([]appfulfillment.OrderItemResponse, 0, len(items))
	for _, item := range items {
		itemResponses = append(itemResponses, appfulfillment.ToOrderItemResponse(item))
	}
	return OrderDetailResponse{
		Order: appapproval.ToOrderResponse(ord),
		Items: itemResponses,
	}
}
