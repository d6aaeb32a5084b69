package persistence

import (
	"context"

	"github.com/garmentflow/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockMovementRepository implements inventory.MovementRepository using GORM.
// Movements are append-only; there is no update or delete path.
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Save appends a movement to the ledger
func (r *GormStockMovementRepository) Save(ctx context.Context, movement *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// FindByInventoryItemID returns the movement history of one inventory item, newest first
func (r *GormStockMovementRepository) FindByInventoryItemID(ctx context.Context, itemID uuid.UUID, limit, offset int) ([]*inventory.StockMovement, error) {
	var movements []*inventory.StockMovement
	if err := r.db.WithContext(ctx).
		Where("inventory_item_id = ?", itemID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByOrderItemID returns every movement attributed to an order item
func (r *GormStockMovementRepository) FindByOrderItemID(ctx context.Context, orderItemID uuid.UUID) ([]*inventory.StockMovement, error) {
	var movements []*inventory.StockMovement
	if err := r.db.WithContext(ctx).
		Where("ref_order_item_id = ?", orderItemID).
		Order("created_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// Ensure GormStockMovementRepository implements inventory.MovementRepository
var _ inventory.MovementRepository = (*GormStockMovementRepository)(nil)
