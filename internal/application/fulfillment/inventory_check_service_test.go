package fulfillment

import (
	"context"
	"testing"

	"github.com/garmentflow/backend/internal/domain/bom"
	"github.com/garmentflow/backend/internal/domain/fulfillment"
	"github.com/garmentflow/backend/internal/domain/inventory"
	"github.com/garmentflow/backend/internal/domain/procurement"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedMaterial creates an inventory item with the given stock
func seedMaterial(t *testing.T, env *testEnv, sku string, available int64) *inventory.InventoryItem {
	t.Helper()
	item, err := inventory.NewInventoryItem(sku, sku, "fabric", "meter")
	require.NoError(t, err)
	item.AvailableQuantity = decimal.NewFromInt(available)
	require.NoError(t, env.inventory.Save(context.Background(), item))
	return item
}

// seedOrderItem creates an order item in the inventory-check stage
func seedOrderItem(t *testing.T, env *testEnv, quantity int64, pieces ...string) *fulfillment.OrderItem {
	t.Helper()
	productID := uuid.New()
	item, err := fulfillment.NewOrderItem(uuid.New(), &productID, nil, "M", decimal.NewFromInt(quantity), pieces)
	require.NoError(t, err)
	item.ClearDomainEvents()
	require.NoError(t, env.items.Save(context.Background(), item))
	return item
}

func bomLine(invItem *inventory.InventoryItem, perUnit int64, piece string) bom.Line {
	return bom.Line{
		InventoryItemID: invItem.ID,
		QuantityPerUnit: decimal.NewFromInt(perUnit),
		Unit:            invItem.Unit,
		Piece:           piece,
	}
}

func TestInventoryCheckService_RunInventoryCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("all sections pass and a full packet is created", func(t *testing.T) {
		env := newTestEnv()
		silk := seedMaterial(t, env, "FAB-SILK", 20)
		cotton := seedMaterial(t, env, "FAB-COTTON", 20)
		item := seedOrderItem(t, env, 2, "shirt", "dupatta")
		service := NewInventoryCheckService(env.scope, StubResolver{Lines: bom.Lines{
			bomLine(silk, 3, "shirt"),
			bomLine(cotton, 2, "dupatta"),
		}})

		resp, err := service.RunInventoryCheck(ctx, item.ID)

		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"shirt", "dupatta"}, resp.PassedSections)
		assert.Empty(t, resp.FailedSections)
		assert.Equal(t, fulfillment.ItemStatusCreatePacket.String(), resp.OrderItem.Status)

		// Stock reserved: 2 units * 3 m/unit silk, 2 * 2 m cotton
		assert.True(t, silk.AvailableQuantity.Equal(decimal.NewFromInt(14)))
		assert.True(t, cotton.AvailableQuantity.Equal(decimal.NewFromInt(16)))
		assert.Len(t, env.movements.movements, 2)

		// One full packet, no demands
		packet, err := env.packets.FindByOrderItemID(ctx, item.ID)
		require.NoError(t, err)
		assert.False(t, packet.IsPartial)
		assert.Len(t, packet.PickList, 2)
		assert.Zero(t, env.demands.Count())
	})

	t.Run("shortage fails the section and raises demands", func(t *testing.T) {
		env := newTestEnv()
		silk := seedMaterial(t, env, "FAB-SILK", 20)
		cotton := seedMaterial(t, env, "FAB-COTTON", 1)
		item := seedOrderItem(t, env, 2, "shirt", "dupatta")
		service := NewInventoryCheckService(env.scope, StubResolver{Lines: bom.Lines{
			bomLine(silk, 3, "shirt"),
			bomLine(cotton, 2, "dupatta"),
		}})

		resp, err := service.RunInventoryCheck(ctx, item.ID)

		require.NoError(t, err)
		assert.Equal(t, []string{"shirt"}, resp.PassedSections)
		assert.Equal(t, []string{"dupatta"}, resp.FailedSections)
		assert.Equal(t, fulfillment.ItemStatusPartialCreatePacket.String(), resp.OrderItem.Status)

		// The failed section's material is untouched
		assert.True(t, cotton.AvailableQuantity.Equal(decimal.NewFromInt(1)))

		// A partial packet carries the blocked section as pending
		packet, err := env.packets.FindByOrderItemID(ctx, item.ID)
		require.NoError(t, err)
		assert.True(t, packet.IsPartial)
		assert.Equal(t, fulfillment.PieceList{"dupatta"}, packet.SectionsPending)

		// One open demand for the shortfall of 3 meters
		demands, err := env.demands.FindByOrderItemID(ctx, item.ID)
		require.NoError(t, err)
		require.Len(t, demands, 1)
		assert.Equal(t, procurement.DemandStatusOpen, demands[0].Status)
		assert.Equal(t, "dupatta", demands[0].AffectedSection)
		assert.True(t, demands[0].ShortageQty.Equal(decimal.NewFromInt(3)))
	})

	t.Run("no section passes leaves item awaiting material without a packet", func(t *testing.T) {
		env := newTestEnv()
		silk := seedMaterial(t, env, "FAB-SILK", 1)
		item := seedOrderItem(t, env, 2, "shirt")
		service := NewInventoryCheckService(env.scope, StubResolver{Lines: bom.Lines{
			bomLine(silk, 3, "shirt"),
		}})

		resp, err := service.RunInventoryCheck(ctx, item.ID)

		require.NoError(t, err)
		assert.Empty(t, resp.PassedSections)
		assert.Equal(t, fulfillment.ItemStatusAwaitingMaterial.String(), resp.OrderItem.Status)
		assert.Zero(t, env.packets.Count())
	})

	t.Run("a section without BOM lines never passes", func(t *testing.T) {
		env := newTestEnv()
		silk := seedMaterial(t, env, "FAB-SILK", 100)
		item := seedOrderItem(t, env, 1, "shirt", "pouch")
		service := NewInventoryCheckService(env.scope, StubResolver{Lines: bom.Lines{
			bomLine(silk, 3, "shirt"),
		}})

		resp, err := service.RunInventoryCheck(ctx, item.ID)

		require.NoError(t, err)
		assert.Equal(t, []string{"shirt"}, resp.PassedSections)
		assert.Equal(t, []string{"pouch"}, resp.FailedSections)
	})

	t.Run("repeated full check never re-deducts passed sections", func(t *testing.T) {
		env := newTestEnv()
		silk := seedMaterial(t, env, "FAB-SILK", 20)
		cotton := seedMaterial(t, env, "FAB-COTTON", 1)
		item := seedOrderItem(t, env, 2, "shirt", "dupatta")
		service := NewInventoryCheckService(env.scope, StubResolver{Lines: bom.Lines{
			bomLine(silk, 3, "shirt"),
			bomLine(cotton, 2, "dupatta"),
		}})

		_, err := service.RunInventoryCheck(ctx, item.ID)
		require.NoError(t, err)
		silkAfterFirst := silk.AvailableQuantity

		resp, err := service.RunInventoryCheck(ctx, item.ID)

		require.NoError(t, err)
		// The shirt stays reserved exactly once
		assert.True(t, silk.AvailableQuantity.Equal(silkAfterFirst))
		assert.Len(t, env.movements.movements, 1)
		assert.Equal(t, fulfillment.ItemStatusPartialCreatePacket.String(), resp.OrderItem.Status)

		// Demands were wiped and re-derived, not accumulated
		assert.Equal(t, 1, env.demands.Count())
		// Still one packet
		assert.Equal(t, 1, env.packets.Count())
	})

	t.Run("second check merges newly passed sections into the packet", func(t *testing.T) {
		env := newTestEnv()
		silk := seedMaterial(t, env, "FAB-SILK", 20)
		cotton := seedMaterial(t, env, "FAB-COTTON", 1)
		item := seedOrderItem(t, env, 2, "shirt", "dupatta")
		service := NewInventoryCheckService(env.scope, StubResolver{Lines: bom.Lines{
			bomLine(silk, 3, "shirt"),
			bomLine(cotton, 2, "dupatta"),
		}})
		_, err := service.RunInventoryCheck(ctx, item.ID)
		require.NoError(t, err)

		// Material arrives
		cotton.AvailableQuantity = decimal.NewFromInt(10)

		resp, err := service.RunInventoryCheck(ctx, item.ID)

		require.NoError(t, err)
		assert.Equal(t, fulfillment.ItemStatusCreatePacket.String(), resp.OrderItem.Status)

		packet, err := env.packets.FindByOrderItemID(ctx, item.ID)
		require.NoError(t, err)
		assert.False(t, packet.IsPartial)
		assert.ElementsMatch(t, fulfillment.PieceList{"shirt", "dupatta"}, packet.SectionsIncluded)
		assert.Equal(t, 1, env.packets.Count())
		assert.Zero(t, env.demands.Count())
	})

	t.Run("two items cannot both reserve the last stock", func(t *testing.T) {
		env := newTestEnv()
		silk := seedMaterial(t, env, "FAB-SILK", 8)
		first := seedOrderItem(t, env, 2, "shirt")
		second := seedOrderItem(t, env, 2, "shirt")
		service := NewInventoryCheckService(env.scope, StubResolver{Lines: bom.Lines{
			bomLine(silk, 3, "shirt"),
		}})

		respFirst, err := service.RunInventoryCheck(ctx, first.ID)
		require.NoError(t, err)
		respSecond, err := service.RunInventoryCheck(ctx, second.ID)
		require.NoError(t, err)

		assert.Equal(t, []string{"shirt"}, respFirst.PassedSections)
		assert.Empty(t, respSecond.PassedSections)
		assert.True(t, silk.AvailableQuantity.Equal(decimal.NewFromInt(2)))

		demands, err := env.demands.FindByOrderItemID(ctx, second.ID)
		require.NoError(t, err)
		require.Len(t, demands, 1)
		assert.True(t, demands[0].ShortageQty.Equal(decimal.NewFromInt(4)))
	})

	t.Run("rejects items past the check stage", func(t *testing.T) {
		env := newTestEnv()
		item := seedOrderItem(t, env, 1, "shirt")
		item.Status = fulfillment.ItemStatusInProduction
		service := NewInventoryCheckService(env.scope, StubResolver{})

		_, err := service.RunInventoryCheck(ctx, item.ID)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Cannot run inventory check")
	})

	t.Run("unknown item reports not found", func(t *testing.T) {
		env := newTestEnv()
		service := NewInventoryCheckService(env.scope, StubResolver{})

		_, err := service.RunInventoryCheck(ctx, uuid.New())

		require.Error(t, err)
	})

	t.Run("publishes section events after commit", func(t *testing.T) {
		env := newTestEnv()
		silk := seedMaterial(t, env, "FAB-SILK", 20)
		item := seedOrderItem(t, env, 1, "shirt")
		service := NewInventoryCheckService(env.scope, StubResolver{Lines: bom.Lines{
			bomLine(silk, 3, "shirt"),
		}})
		publisher := NewMockEventPublisher()
		service.SetEventPublisher(publisher)

		_, err := service.RunInventoryCheck(ctx, item.ID)

		require.NoError(t, err)
		assert.NotEmpty(t, publisher.GetEventsByType(inventory.EventTypeStockDeducted))
	})
}
