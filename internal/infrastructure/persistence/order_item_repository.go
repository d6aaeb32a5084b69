package persistence

import (
	"context"
	"errors"

	"github.com/garmentflow/backend/internal/domain/fulfillment"
	"github.com/garmentflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderItemRepository implements fulfillment.OrderItemRepository using GORM
type GormOrderItemRepository struct {
	db *gorm.DB
}

// NewGormOrderItemRepository creates a new GormOrderItemRepository
func NewGormOrderItemRepository(db *gorm.DB) *GormOrderItemRepository {
	return &GormOrderItemRepository{db: db}
}

// Save creates or updates an order item
func (r *GormOrderItemRepository) Save(ctx context.Context, item *fulfillment.OrderItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// SaveWithLock saves with optimistic locking: the version loaded with the
// aggregate is the guard, and the write bumps it by one
func (r *GormOrderItemRepository) SaveWithLock(ctx context.Context, item *fulfillment.OrderItem) error {
	result := r.db.WithContext(ctx).
		Model(item).
		Where("id = ? AND version = ?", item.ID, item.Version).
		Updates(map[string]interface{}{
			"status":                  item.Status,
			"sections":                item.Sections,
			"material_requirements":   item.MaterialRequirements,
			"stock_deductions":        item.StockDeductions,
			"packet_id":               item.PacketID,
			"last_inventory_check_at": item.LastInventoryCheckAt,
			"sections_checked":        item.SectionsChecked,
			"video_data":              item.VideoData,
			"archived_video_data":     item.ArchivedVideoData,
			"re_video_request":        item.ReVideoRequest,
			"timeline":                item.Timeline,
			"version":                 item.Version + 1,
			"updated_at":              item.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	item.IncrementVersion()
	return nil
}

// FindByID finds an order item by its ID
func (r *GormOrderItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.OrderItem, error) {
	var item fulfillment.OrderItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByOrderID finds all items belonging to an order
func (r *GormOrderItemRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]*fulfillment.OrderItem, error) {
	var items []*fulfillment.OrderItem
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindByStatus finds order items in a given status
func (r *GormOrderItemRepository) FindByStatus(ctx context.Context, status fulfillment.ItemStatus, limit, offset int) ([]*fulfillment.OrderItem, error) {
	var items []*fulfillment.OrderItem
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes an order item
func (r *GormOrderItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&fulfillment.OrderItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormOrderItemRepository implements fulfillment.OrderItemRepository
var _ fulfillment.OrderItemRepository = (*GormOrderItemRepository)(nil)
