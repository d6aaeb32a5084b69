package persistence

import (
	"context"
	"errors"

	"github.com/garmentflow/backend/internal/domain/procurement"
	"github.com/garmentflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDemandRepository implements procurement.Repository using GORM
type GormDemandRepository struct {
	db *gorm.DB
}

// NewGormDemandRepository creates a new GormDemandRepository
func NewGormDemandRepository(db *gorm.DB) *GormDemandRepository {
	return &GormDemandRepository{db: db}
}

// Save creates or updates a demand
func (r *GormDemandRepository) Save(ctx context.Context, demand *procurement.Demand) error {
	return r.db.WithContext(ctx).Save(demand).Error
}

// SaveAll persists a batch of demands
func (r *GormDemandRepository) SaveAll(ctx context.Context, demands []*procurement.Demand) error {
	if len(demands) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(demands).Error
}

// FindByID finds a demand by its ID
func (r *GormDemandRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.Demand, error) {
	var demand procurement.Demand
	if err := r.db.WithContext(ctx).First(&demand, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &demand, nil
}

// FindByOrderItemID returns every demand raised for an order item
func (r *GormDemandRepository) FindByOrderItemID(ctx context.Context, orderItemID uuid.UUID) ([]*procurement.Demand, error) {
	var demands []*procurement.Demand
	if err := r.db.WithContext(ctx).
		Where("order_item_id = ?", orderItemID).
		Order("created_at ASC").
		Find(&demands).Error; err != nil {
		return nil, err
	}
	return demands, nil
}

// FindBlockingByOrderItemID returns the OPEN and ORDERED demands of an order
// item. These are the demands that keep a section out of rerun scope.
func (r *GormDemandRepository) FindBlockingByOrderItemID(ctx context.Context, orderItemID uuid.UUID) ([]*procurement.Demand, error) {
	var demands []*procurement.Demand
	if err := r.db.WithContext(ctx).
		Where("order_item_id = ? AND status IN ?", orderItemID,
			[]procurement.DemandStatus{procurement.DemandStatusOpen, procurement.DemandStatusOrdered}).
		Order("created_at ASC").
		Find(&demands).Error; err != nil {
		return nil, err
	}
	return demands, nil
}

// FindByStatus returns demands in a given status
func (r *GormDemandRepository) FindByStatus(ctx context.Context, status procurement.DemandStatus, limit, offset int) ([]*procurement.Demand, error) {
	var demands []*procurement.Demand
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&demands).Error; err != nil {
		return nil, err
	}
	return demands, nil
}

// DeleteByOrderItemID wipes every demand for one order item
func (r *GormDemandRepository) DeleteByOrderItemID(ctx context.Context, orderItemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&procurement.Demand{}, "order_item_id = ?", orderItemID).Error
}

// DeleteByOrderItemIDs wipes every demand for the given order items
func (r *GormDemandRepository) DeleteByOrderItemIDs(ctx context.Context, orderItemIDs []uuid.UUID) error {
	if len(orderItemIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Delete(&procurement.Demand{}, "order_item_id IN ?", orderItemIDs).Error
}

// Ensure GormDemandRepository implements procurement.Repository
var _ procurement.Repository = (*GormDemandRepository)(nil)
