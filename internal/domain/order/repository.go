package order

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists Order aggregates
type Repository interface {
	Save(ctx context.Context, o *Order) error
	SaveWithLock(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
	FindByStatus(ctx context.Context, status Status, limit, offset int) ([]*Order, error)
	List(ctx context.Context, limit, offset int) ([]*Order, error)
}
