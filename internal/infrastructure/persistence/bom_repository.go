package persistence

import (
	"context"
	"errors"

	"github.com/garmentflow/backend/internal/domain/bom"
	"github.com/garmentflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBOMRepository implements bom.Repository using GORM
type GormBOMRepository struct {
	db *gorm.DB
}

// NewGormBOMRepository creates a new GormBOMRepository
func NewGormBOMRepository(db *gorm.DB) *GormBOMRepository {
	return &GormBOMRepository{db: db}
}

// SaveTemplate creates or updates a BOM template
func (r *GormBOMRepository) SaveTemplate(ctx context.Context, template *bom.Template) error {
	return r.db.WithContext(ctx).Save(template).Error
}

// FindTemplate finds the template for a product and size
func (r *GormBOMRepository) FindTemplate(ctx context.Context, productID uuid.UUID, size string) (*bom.Template, error) {
	var template bom.Template
	if err := r.db.WithContext(ctx).
		First(&template, "product_id = ? AND size = ?", productID, size).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &template, nil
}

// SaveCustomBOM creates or updates a custom BOM
func (r *GormBOMRepository) SaveCustomBOM(ctx context.Context, custom *bom.CustomBOM) error {
	return r.db.WithContext(ctx).Save(custom).Error
}

// FindCustomBOMByID finds a custom BOM by its ID
func (r *GormBOMRepository) FindCustomBOMByID(ctx context.Context, id uuid.UUID) (*bom.CustomBOM, error) {
	var custom bom.CustomBOM
	if err := r.db.WithContext(ctx).First(&custom, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &custom, nil
}

// FindCustomBOMsByOrderID returns every custom BOM attached to an order
func (r *GormBOMRepository) FindCustomBOMsByOrderID(ctx context.Context, orderID uuid.UUID) ([]*bom.CustomBOM, error) {
	var customs []*bom.CustomBOM
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&customs).Error; err != nil {
		return nil, err
	}
	return customs, nil
}

// Ensure GormBOMRepository implements bom.Repository
var _ bom.Repository = (*GormBOMRepository)(nil)
