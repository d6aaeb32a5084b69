package procurement

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists procurement demands
type Repository interface {
	Save(ctx context.Context, demand *Demand) error
	SaveAll(ctx context.Context, demands []*Demand) error
	FindByID(ctx context.Context, id uuid.UUID) (*Demand, error)
	FindByOrderItemID(ctx context.Context, orderItemID uuid.UUID) ([]*Demand, error)
	FindBlockingByOrderItemID(ctx context.Context, orderItemID uuid.UUID) ([]*Demand, error)
	FindByStatus(ctx context.Context, status DemandStatus, limit, offset int) ([]*Demand, error)
	// DeleteByOrderItemID wipes every demand for an order item. Full checks
	// call it first so demands are always re-derived, never accumulated.
	DeleteByOrderItemID(ctx context.Context, orderItemID uuid.UUID) error
	DeleteByOrderItemIDs(ctx context.Context, orderItemIDs []uuid.UUID) error
}
