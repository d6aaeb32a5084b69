package inventory

import (
	"fmt"
	"time"

	"github.com/garmentflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InventoryItem is the aggregate root for one raw material in the ledger
// (fabric, thread, buttons, dye, ...). Its AvailableQuantity is the single
// source of truth for stock; requirement snapshots elsewhere are never
// authoritative.
type InventoryItem struct {
	shared.BaseAggregateRoot
	SKU               string          `gorm:"size:60;not null;uniqueIndex"`
	Name              string          `gorm:"size:200;not null"`
	Category          string          `gorm:"size:60;index"`
	Unit              string          `gorm:"size:20;not null"`
	AvailableQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MinQuantity       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCost          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// NewInventoryItem creates a new raw material in the ledger
func NewInventoryItem(sku, name, category, unit string) (*InventoryItem, error) {
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}

	return &InventoryItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               sku,
		Name:              name,
		Category:          category,
		Unit:              unit,
		AvailableQuantity: decimal.Zero,
		MinQuantity:       decimal.Zero,
		UnitCost:          decimal.Zero,
	}, nil
}

// HasSufficientStock reports whether the given quantity can be deducted
func (i *InventoryItem) HasSufficientStock(quantity decimal.Decimal) bool {
	return i.AvailableQuantity.GreaterThanOrEqual(quantity)
}

// Deduct removes stock from the ledger and returns the movement record.
// Callers must hold the item's row lock: the caller's read of available stock
// and this deduction must be one serialized unit against concurrent checks.
func (i *InventoryItem) Deduct(quantity decimal.Decimal, ref MovementReference, note string) (*StockMovement, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Deduction quantity must be positive")
	}
	if i.AvailableQuantity.LessThan(quantity) {
		return nil, shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Insufficient stock for %s: available %s, requested %s", i.SKU, i.AvailableQuantity, quantity))
	}

	i.AvailableQuantity = i.AvailableQuantity.Sub(quantity)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	movement := NewStockMovement(i.ID, MovementTypeOut, quantity, i.AvailableQuantity, ref, note)
	i.AddDomainEvent(NewStockDeductedEvent(i, quantity, movement.ID))
	if i.AvailableQuantity.LessThan(i.MinQuantity) {
		i.AddDomainEvent(NewLowStockEvent(i))
	}

	return movement, nil
}

// Restock adds stock to the ledger and returns the movement record
func (i *InventoryItem) Restock(quantity decimal.Decimal, ref MovementReference, note string) (*StockMovement, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Restock quantity must be positive")
	}

	i.AvailableQuantity = i.AvailableQuantity.Add(quantity)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	movement := NewStockMovement(i.ID, MovementTypeIn, quantity, i.AvailableQuantity, ref, note)
	i.AddDomainEvent(NewStockReceivedEvent(i, quantity, movement.ID))

	return movement, nil
}

// Adjust corrects the ledger to a counted quantity and returns the movement
// record, or nil when the count matches the ledger
func (i *InventoryItem) Adjust(countedQuantity decimal.Decimal, note string) (*StockMovement, error) {
	if countedQuantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Counted quantity cannot be negative")
	}
	diff := countedQuantity.Sub(i.AvailableQuantity)
	if diff.IsZero() {
		return nil, nil
	}

	i.AvailableQuantity = countedQuantity
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return NewStockMovement(i.ID, MovementTypeAdjustment, diff.Abs(), i.AvailableQuantity, MovementReference{}, note), nil
}
