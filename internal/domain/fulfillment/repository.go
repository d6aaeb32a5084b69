package fulfillment

import (
	"context"

	"github.com/google/uuid"
)

// OrderItemRepository persists OrderItem aggregates
type OrderItemRepository interface {
	Save(ctx context.Context, item *OrderItem) error
	SaveWithLock(ctx context.Context, item *OrderItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*OrderItem, error)
	FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]*OrderItem, error)
	FindByStatus(ctx context.Context, status ItemStatus, limit, offset int) ([]*OrderItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PacketRepository persists Packet aggregates
type PacketRepository interface {
	Save(ctx context.Context, packet *Packet) error
	FindByID(ctx context.Context, id uuid.UUID) (*Packet, error)
	FindByOrderItemID(ctx context.Context, orderItemID uuid.UUID) (*Packet, error)
	DeleteByOrderItemIDs(ctx context.Context, orderItemIDs []uuid.UUID) error
}
