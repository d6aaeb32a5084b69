package order

import (
	"context"
	"fmt"
	"time"

	appfulfillment "github.com/garmentflow/backend/internal/application/fulfillment"
	"github.com/garmentflow/backend/internal/domain/fulfillment"
	"github.com/garmentflow/backend/internal/domain/order"
	"github.com/garmentflow/backend/internal/domain/shared"
	"github.com/garmentflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest creates an order together with its items
type CreateOrderRequest struct {
	ClientName  string                                  `json:"client_name" binding:"required"`
	ClientPhone string                                  `json:"client_phone"`
	TotalAmount decimal.Decimal                         `json:"total_amount" binding:"required"`
	Items       []appfulfillment.CreateOrderItemRequest `json:"items" binding:"required,min=1"`
}

// OrderService creates and reads orders. Workflow mutations live in the
// check, rerun and approval services; this service only handles the entry
// point and queries.
type OrderService struct {
	scope          appfulfillment.TransactionScope
	eventPublisher shared.EventPublisher
}

// NewOrderService creates a new OrderService
func NewOrderService(scope appfulfillment.TransactionScope) *OrderService {
	return &OrderService{scope: scope}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates an order with its items. Each item's section map is built
// from its included pieces plus selected add-ons; duplicate names collapse
// to one section.
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*order.Order, []*fulfillment.OrderItem, error) {
	orderNumber := generateOrderNumber()
	ord, err := order.NewOrder(orderNumber, req.ClientName, req.ClientPhone, valueobject.NewMoneyINR(req.TotalAmount))
	if err != nil {
		return nil, nil, err
	}

	items := make([]*fulfillment.OrderItem, 0, len(req.Items))
	for _, itemReq := range req.Items {
		pieces := append(append([]string{}, itemReq.IncludedPieces...), itemReq.AddOnPieces...)
		item, err := fulfillment.NewOrderItem(ord.ID, itemReq.ProductID, itemReq.CustomBOMID, itemReq.Size, itemReq.Quantity, pieces)
		if err != nil {
			return nil, nil, err
		}
		items = append(items, item)
	}

	var events []shared.DomainEvent
	err = s.scope.Execute(ctx, func(repos appfulfillment.TransactionalRepositories) error {
		if err := repos.OrderRepo().Save(ctx, ord); err != nil {
			return err
		}
		for _, item := range items {
			if err := repos.OrderItemRepo().Save(ctx, item); err != nil {
				return err
			}
			events = append(events, item.GetDomainEvents()...)
			item.ClearDomainEvents()
		}
		events = append(events, ord.GetDomainEvents()...)
		ord.ClearDomainEvents()
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if s.eventPublisher != nil && len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
	}

	return ord, items, nil
}

// Get returns an order with its items
func (s *OrderService) Get(ctx context.Context, orderID uuid.UUID) (*order.Order, []*fulfillment.OrderItem, error) {
	var (
		ord   *order.Order
		items []*fulfillment.OrderItem
	)
	err := s.scope.Execute(ctx, func(repos appfulfillment.TransactionalRepositories) error {
		var err error
		ord, err = repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		items, err = repos.OrderItemRepo().FindByOrderID(ctx, orderID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return ord, items, nil
}

// GetItem returns a single order item
func (s *OrderService) GetItem(ctx context.Context, orderItemID uuid.UUID) (*fulfillment.OrderItem, error) {
	var item *fulfillment.OrderItem
	err := s.scope.Execute(ctx, func(repos appfulfillment.TransactionalRepositories) error {
		var err error
		item, err = repos.OrderItemRepo().FindByID(ctx, orderItemID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// List returns orders page by page
func (s *OrderService) List(ctx context.Context, limit, offset int) ([]*order.Order, error) {
	if limit <= 0 {
		limit = 20
	}
	var orders []*order.Order
	err := s.scope.Execute(ctx, func(repos appfulfillment.TransactionalRepositories) error {
		var err error
		orders, err = repos.OrderRepo().List(ctx, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// generateOrderNumber derives a time-based human-readable order number
func generateOrderNumber() string {
	now := time.Now()
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), uuid.New().String()[:6])
}
