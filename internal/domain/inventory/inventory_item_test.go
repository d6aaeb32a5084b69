package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestItem(t *testing.T, available int64) *InventoryItem {
	t.Helper()
	item, err := NewInventoryItem("FAB-SILK-RED", "Red silk fabric", "fabric", "meter")
	require.NoError(t, err)
	item.AvailableQuantity = decimal.NewFromInt(available)
	return item
}

func TestNewInventoryItem(t *testing.T) {
	t.Run("creates item with zero stock", func(t *testing.T) {
		item, err := NewInventoryItem("THR-GOLD", "Gold thread", "thread", "spool")

		require.NoError(t, err)
		assert.Equal(t, "THR-GOLD", item.SKU)
		assert.True(t, item.AvailableQuantity.IsZero())
	})

	t.Run("fails without SKU", func(t *testing.T) {
		_, err := NewInventoryItem("", "Gold thread", "thread", "spool")
		require.Error(t, err)
	})

	t.Run("fails without unit", func(t *testing.T) {
		_, err := NewInventoryItem("THR-GOLD", "Gold thread", "thread", "")
		require.Error(t, err)
	})
}

func TestInventoryItem_Deduct(t *testing.T) {
	t.Run("deducts stock and records movement", func(t *testing.T) {
		item := newTestItem(t, 10)
		orderID := uuid.New()
		ref := MovementReference{OrderID: &orderID, Piece: "shirt"}

		movement, err := item.Deduct(decimal.NewFromInt(3), ref, "reserved")

		require.NoError(t, err)
		assert.True(t, item.AvailableQuantity.Equal(decimal.NewFromInt(7)))
		assert.Equal(t, MovementTypeOut, movement.MovementType)
		assert.True(t, movement.Quantity.Equal(decimal.NewFromInt(3)))
		assert.True(t, movement.BalanceAfter.Equal(decimal.NewFromInt(7)))
		assert.Equal(t, "shirt", movement.Reference.Piece)
		assert.Equal(t, 2, item.Version)
	})

	t.Run("fails on insufficient stock without mutating", func(t *testing.T) {
		item := newTestItem(t, 2)

		_, err := item.Deduct(decimal.NewFromInt(3), MovementReference{}, "")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Insufficient stock")
		assert.True(t, item.AvailableQuantity.Equal(decimal.NewFromInt(2)))
	})

	t.Run("fails on non-positive quantity", func(t *testing.T) {
		item := newTestItem(t, 10)
		_, err := item.Deduct(decimal.Zero, MovementReference{}, "")
		require.Error(t, err)
	})

	t.Run("emits low stock event below minimum", func(t *testing.T) {
		item := newTestItem(t, 10)
		item.MinQuantity = decimal.NewFromInt(8)
		item.ClearDomainEvents()

		_, err := item.Deduct(decimal.NewFromInt(5), MovementReference{}, "")

		require.NoError(t, err)
		assert.Len(t, item.GetDomainEvents(), 2)
	})
}

func TestInventoryItem_Restock(t *testing.T) {
	item := newTestItem(t, 5)

	movement, err := item.Restock(decimal.NewFromInt(20), MovementReference{}, "supplier delivery")

	require.NoError(t, err)
	assert.True(t, item.AvailableQuantity.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, MovementTypeIn, movement.MovementType)
	assert.True(t, movement.BalanceAfter.Equal(decimal.NewFromInt(25)))
}

func TestInventoryItem_Adjust(t *testing.T) {
	t.Run("corrects ledger to counted quantity", func(t *testing.T) {
		item := newTestItem(t, 10)

		movement, err := item.Adjust(decimal.NewFromInt(7), "stocktake")

		require.NoError(t, err)
		require.NotNil(t, movement)
		assert.True(t, item.AvailableQuantity.Equal(decimal.NewFromInt(7)))
		assert.Equal(t, MovementTypeAdjustment, movement.MovementType)
		assert.True(t, movement.Quantity.Equal(decimal.NewFromInt(3)))
	})

	t.Run("no movement when count matches", func(t *testing.T) {
		item := newTestItem(t, 10)

		movement, err := item.Adjust(decimal.NewFromInt(10), "stocktake")

		require.NoError(t, err)
		assert.Nil(t, movement)
	})

	t.Run("rejects negative count", func(t *testing.T) {
		item := newTestItem(t, 10)
		_, err := item.Adjust(decimal.NewFromInt(-1), "stocktake")
		require.Error(t, err)
	})
}
