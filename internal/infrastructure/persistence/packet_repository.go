package persistence

import (
	"context"
	"errors"

	"github.com/garmentflow/backend/internal/domain/fulfillment"
	"github.com/garmentflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPacketRepository implements fulfillment.PacketRepository using GORM
type GormPacketRepository struct {
	db *gorm.DB
}

// NewGormPacketRepository creates a new GormPacketRepository
func NewGormPacketRepository(db *gorm.DB) *GormPacketRepository {
	return &GormPacketRepository{db: db}
}

// Save creates or updates a packet
func (r *GormPacketRepository) Save(ctx context.Context, packet *fulfillment.Packet) error {
	return r.db.WithContext(ctx).Save(packet).Error
}

// FindByID finds a packet by its ID
func (r *GormPacketRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.Packet, error) {
	var packet fulfillment.Packet
	if err := r.db.WithContext(ctx).First(&packet, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &packet, nil
}

// FindByOrderItemID finds the unique packet for an order item
func (r *GormPacketRepository) FindByOrderItemID(ctx context.Context, orderItemID uuid.UUID) (*fulfillment.Packet, error) {
	var packet fulfillment.Packet
	if err := r.db.WithContext(ctx).First(&packet, "order_item_id = ?", orderItemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &packet, nil
}

// DeleteByOrderItemIDs removes the packets of the given order items
func (r *GormPacketRepository) DeleteByOrderItemIDs(ctx context.Context, orderItemIDs []uuid.UUID) error {
	if len(orderItemIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Delete(&fulfillment.Packet{}, "order_item_id IN ?", orderItemIDs).Error
}

// Ensure GormPacketRepository implements fulfillment.PacketRepository
var _ fulfillment.PacketRepository = (*GormPacketRepository)(nil)
