package inventory

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists InventoryItem aggregates
type Repository interface {
	Save(ctx context.Context, item *InventoryItem) error
	SaveWithLock(ctx context.Context, item *InventoryItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryItem, error)
	// FindByIDForUpdate acquires the item's row lock for the duration of the
	// surrounding transaction. Check-then-deduct sequences must load through
	// it so two concurrent checks cannot both observe sufficient stock.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*InventoryItem, error)
	FindBySKU(ctx context.Context, sku string) (*InventoryItem, error)
	List(ctx context.Context, limit, offset int) ([]*InventoryItem, error)
}

// MovementRepository persists the immutable stock-movement ledger
type MovementRepository interface {
	Save(ctx context.Context, movement *StockMovement) error
	FindByInventoryItemID(ctx context.Context, itemID uuid.UUID, limit, offset int) ([]*StockMovement, error)
	FindByOrderItemID(ctx context.Context, orderItemID uuid.UUID) ([]*StockMovement, error)
}
