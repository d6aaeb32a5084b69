package persistence

import (
	"context"
	"errors"

	"github.com/garmentflow/backend/internal/domain/inventory"
	"github.com/garmentflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInventoryRepository implements inventory.Repository using GORM
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryRepository creates a new GormInventoryRepository
func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// Save creates or updates an inventory item
func (r *GormInventoryRepository) Save(ctx context.Context, item *inventory.InventoryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormInventoryRepository) SaveWithLock(ctx context.Context, item *inventory.InventoryItem) error {
	result := r.db.WithContext(ctx).
		Model(item).
		Where("id = ? AND version = ?", item.ID, item.Version-1).
		Updates(map[string]interface{}{
			"name":               item.Name,
			"category":           item.Category,
			"unit":               item.Unit,
			"available_quantity": item.AvailableQuantity,
			"min_quantity":       item.MinQuantity,
			"unit_cost":          item.UnitCost,
			"version":            item.Version,
			"updated_at":         item.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByID finds an inventory item by its ID
func (r *GormInventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByIDForUpdate loads an inventory item holding its row lock (SELECT ...
// FOR UPDATE). Must run inside a transaction; the lock is released on commit
// or rollback.
func (r *GormInventoryRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindBySKU finds an inventory item by its SKU
func (r *GormInventoryRepository) FindBySKU(ctx context.Context, sku string) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, "sku = ?", sku).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// List returns inventory items ordered by SKU
func (r *GormInventoryRepository) List(ctx context.Context, limit, offset int) ([]*inventory.InventoryItem, error) {
	var items []*inventory.InventoryItem
	if err := r.db.WithContext(ctx).
		Order("sku ASC").
		Limit(limit).Offset(offset).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Ensure GormInventoryRepository implements inventory.Repository
var _ inventory.Repository = (*GormInventoryRepository)(nil)
