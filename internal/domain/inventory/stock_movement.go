package inventory

import (
	"github.com/garmentflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType classifies a ledger write
type MovementType string

const (
	MovementTypeIn         MovementType = "IN"
	MovementTypeOut        MovementType = "OUT"
	MovementTypeAdjustment MovementType = "ADJUSTMENT"
)

// IsValid checks if the type is a valid MovementType
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeIn, MovementTypeOut, MovementTypeAdjustment:
		return true
	}
	return false
}

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// MovementReference tags a ledger write with the workflow entity that caused
// it, so every deduction can be traced back to an order, item and section
type MovementReference struct {
	OrderID     *uuid.UUID `gorm:"type:uuid;index"`
	OrderItemID *uuid.UUID `gorm:"type:uuid;index"`
	Piece       string     `gorm:"size:60"`
}

// StockMovement is one immutable ledger entry. BalanceAfter snapshots the
// item's quantity after the write, which makes the movement history
// independently auditable against the live ledger.
type StockMovement struct {
	shared.BaseEntity
	InventoryItemID uuid.UUID       `gorm:"type:uuid;not null;index"`
	MovementType    MovementType    `gorm:"size:20;not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceAfter    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reference       MovementReference `gorm:"embedded;embeddedPrefix:ref_"`
	Note            string          `gorm:"size:500"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a ledger entry for a completed stock change
func NewStockMovement(itemID uuid.UUID, movementType MovementType, quantity, balanceAfter decimal.Decimal, ref MovementReference, note string) *StockMovement {
	return &StockMovement{
		BaseEntity:      shared.NewBaseEntity(),
		InventoryItemID: itemID,
		MovementType:    movementType,
		Quantity:        quantity,
		BalanceAfter:    balanceAfter,
		Reference:       ref,
		Note:            note,
	}
}
