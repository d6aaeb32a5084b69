package order

import (
	"github.com/garmentflow/backend/internal/domain/shared"
)

// Event types for the order context
const (
	EventTypeOrderCreated     = "order.created"
	EventTypePaymentsApproved = "order.payments_approved"
	EventTypeOrderReset       = "order.reset"
)

// OrderCreatedEvent is published when an order enters the system
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
}

// NewOrderCreatedEvent creates an OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, "Order", o.ID),
		OrderNumber:     o.OrderNumber,
	}
}

// PaymentsApprovedEvent is published when the account-approval gate clears
type PaymentsApprovedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
}

// NewPaymentsApprovedEvent creates a PaymentsApprovedEvent
func NewPaymentsApprovedEvent(o *Order) *PaymentsApprovedEvent {
	return &PaymentsApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentsApproved, "Order", o.ID),
		OrderNumber:     o.OrderNumber,
	}
}

// OrderResetEvent is published when an order starts from scratch
type OrderResetEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
	Reason      string `json:"reason"`
}

// NewOrderResetEvent creates an OrderResetEvent
func NewOrderResetEvent(o *Order, reason string) *OrderResetEvent {
	return &OrderResetEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderReset, "Order", o.ID),
		OrderNumber:     o.OrderNumber,
		Reason:          reason,
	}
}
