package inventory

import (
	"github.com/garmentflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types for the inventory context
const (
	EventTypeStockDeducted = "inventory.stock.deducted"
	EventTypeStockReceived = "inventory.stock.received"
	EventTypeLowStock      = "inventory.stock.low"
)

// StockDeductedEvent is published when stock leaves the ledger
type StockDeductedEvent struct {
	shared.BaseDomainEvent
	SKU        string          `json:"sku"`
	Quantity   decimal.Decimal `json:"quantity"`
	Balance    decimal.Decimal `json:"balance"`
	MovementID uuid.UUID       `json:"movement_id"`
}

// NewStockDeductedEvent creates a StockDeductedEvent
func NewStockDeductedEvent(item *InventoryItem, quantity decimal.Decimal, movementID uuid.UUID) *StockDeductedEvent {
	return &StockDeductedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockDeducted, "InventoryItem", item.ID),
		SKU:             item.SKU,
		Quantity:        quantity,
		Balance:         item.AvailableQuantity,
		MovementID:      movementID,
	}
}

// StockReceivedEvent is published when stock enters the ledger
type StockReceivedEvent struct {
	shared.BaseDomainEvent
	SKU        string          `json:"sku"`
	Quantity   decimal.Decimal `json:"quantity"`
	Balance    decimal.Decimal `json:"balance"`
	MovementID uuid.UUID       `json:"movement_id"`
}

// NewStockReceivedEvent creates a StockReceivedEvent
func NewStockReceivedEvent(item *InventoryItem, quantity decimal.Decimal, movementID uuid.UUID) *StockReceivedEvent {
	return &StockReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReceived, "InventoryItem", item.ID),
		SKU:             item.SKU,
		Quantity:        quantity,
		Balance:         item.AvailableQuantity,
		MovementID:      movementID,
	}
}

// LowStockEvent is published when a deduction drops stock below the minimum
type LowStockEvent struct {
	shared.BaseDomainEvent
	SKU         string          `json:"sku"`
	Balance     decimal.Decimal `json:"balance"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
}

// NewLowStockEvent creates a LowStockEvent
func NewLowStockEvent(item *InventoryItem) *LowStockEvent {
	return &LowStockEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLowStock, "InventoryItem", item.ID),
		SKU:             item.SKU,
		Balance:         item.AvailableQuantity,
		MinQuantity:     item.MinQuantity,
	}
}
