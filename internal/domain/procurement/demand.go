package procurement

import (
	"fmt"
	"time"

	"github.com/garmentflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DemandStatus tracks the lifecycle of a procurement demand
type DemandStatus string

const (
	DemandStatusOpen      DemandStatus = "OPEN"
	DemandStatusOrdered   DemandStatus = "ORDERED"
	DemandStatusReceived  DemandStatus = "RECEIVED"
	DemandStatusFulfilled DemandStatus = "FULFILLED"
	DemandStatusCancelled DemandStatus = "CANCELLED"
)

// IsValid checks if the status is a valid DemandStatus
func (s DemandStatus) IsValid() bool {
	switch s {
	case DemandStatusOpen, DemandStatusOrdered, DemandStatusReceived,
		DemandStatusFulfilled, DemandStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of DemandStatus
func (s DemandStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s DemandStatus) CanTransitionTo(target DemandStatus) bool {
	switch s {
	case DemandStatusOpen:
		return target == DemandStatusOrdered || target == DemandStatusCancelled
	case DemandStatusOrdered:
		return target == DemandStatusReceived || target == DemandStatusCancelled
	case DemandStatusReceived:
		return target == DemandStatusFulfilled || target == DemandStatusCancelled
	case DemandStatusFulfilled:
		return false // Terminal
	case DemandStatusCancelled:
		return false // Terminal
	}
	return false
}

// IsBlocking reports whether the demand still blocks a rerun of its section.
// A RECEIVED demand no longer blocks: the material has arrived and the next
// rerun will verify it against the ledger and mark the demand fulfilled.
func (s DemandStatus) IsBlocking() bool {
	return s == DemandStatusOpen || s == DemandStatusOrdered
}

// Demand is one material shortage raised by a failed section check. Demands
// are fully re-derived by every full check on their order item and
// transitioned to FULFILLED by a rerun once the section clears.
type Demand struct {
	shared.BaseAggregateRoot
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderItemID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	InventoryItemID uuid.UUID       `gorm:"type:uuid;not null;index"`
	SKU             string          `gorm:"size:60;not null"`
	ItemName        string          `gorm:"size:200;not null"`
	RequiredQty     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AvailableQty    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ShortageQty     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit            string          `gorm:"size:20;not null"`
	AffectedSection string          `gorm:"size:60;not null;index"`
	Status          DemandStatus    `gorm:"size:20;not null;index"`
	OrderedAt       *time.Time
	ReceivedAt      *time.Time
	FulfilledAt     *time.Time
}

// TableName returns the table name for GORM
func (Demand) TableName() string {
	return "procurement_demands"
}

// NewDemand records one shortfall entry from a failed section check
func NewDemand(orderID, orderItemID, inventoryItemID uuid.UUID, sku, itemName string, required, available, shortage decimal.Decimal, unit, affectedSection string) (*Demand, error) {
	if orderItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER_ITEM", "Order item ID cannot be empty")
	}
	if inventoryItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVENTORY_ITEM", "Inventory item ID cannot be empty")
	}
	if shortage.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_SHORTAGE", "Shortage quantity must be positive")
	}
	if affectedSection == "" {
		return nil, shared.NewDomainError("INVALID_SECTION", "Affected section cannot be empty")
	}

	return &Demand{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		OrderItemID:       orderItemID,
		InventoryItemID:   inventoryItemID,
		SKU:               sku,
		ItemName:          itemName,
		RequiredQty:       required,
		AvailableQty:      available,
		ShortageQty:       shortage,
		Unit:              unit,
		AffectedSection:   affectedSection,
		Status:            DemandStatusOpen,
	}, nil
}

// MarkOrdered records that a purchase order was placed for the shortage
func (d *Demand) MarkOrdered() error {
	if err := d.transition(DemandStatusOrdered); err != nil {
		return err
	}
	now := time.Now()
	d.OrderedAt = &now
	return nil
}

// MarkReceived records that the ordered material arrived in stock
func (d *Demand) MarkReceived() error {
	if err := d.transition(DemandStatusReceived); err != nil {
		return err
	}
	now := time.Now()
	d.ReceivedAt = &now
	return nil
}

// MarkFulfilled closes the demand once its section passes a rerun
func (d *Demand) MarkFulfilled() error {
	if err := d.transition(DemandStatusFulfilled); err != nil {
		return err
	}
	now := time.Now()
	d.FulfilledAt = &now
	return nil
}

// Cancel closes the demand without fulfillment
func (d *Demand) Cancel() error {
	return d.transition(DemandStatusCancelled)
}

func (d *Demand) transition(target DemandStatus) error {
	if !d.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move demand from %s to %s", d.Status, target))
	}
	d.Status = target
	d.UpdatedAt = time.Now()
	return nil
}
