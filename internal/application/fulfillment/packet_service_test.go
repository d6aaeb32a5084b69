package fulfillment

import (
	"context"
	"testing"

	"github.com/garmentflow/backend/internal/domain/bom"
	"github.com/garmentflow/backend/internal/domain/fulfillment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/uuid"
)

func TestPacketService(t *testing.T) {
	ctx := context.Background()

	// Assemble a real packet through the check engine
	setup := func(t *testing.T) (*testEnv, *fulfillment.OrderItem) {
		t.Helper()
		env := newTestEnv()
		silk := seedMaterial(t, env, "FAB-SILK", 50)
		item := seedOrderItem(t, env, 2, "shirt")
		checkService := NewInventoryCheckService(env.scope, StubResolver{Lines: bom.Lines{
			bomLine(silk, 3, "shirt"),
		}})
		_, err := checkService.RunInventoryCheck(ctx, item.ID)
		require.NoError(t, err)
		return env, item
	}

	t.Run("verify releases packed sections to production", func(t *testing.T) {
		env, item := setup(t)
		service := NewPacketService(env.scope)
		publisher := NewMockEventPublisher()
		service.SetEventPublisher(publisher)

		resp, err := service.Verify(ctx, item.ID, "storekeeper")

		require.NoError(t, err)
		assert.Equal(t, fulfillment.PacketStatusVerified.String(), resp.Status)
		assert.Equal(t, "storekeeper", resp.VerifiedBy)
		assert.Equal(t, fulfillment.SectionStatusReadyForProduction, item.Section("shirt").Status)
		assert.NotEmpty(t, publisher.GetEventsByType(fulfillment.EventTypeSectionReadyForProduction))
	})

	t.Run("release requires verification first", func(t *testing.T) {
		env, item := setup(t)
		service := NewPacketService(env.scope)

		_, err := service.Release(ctx, item.ID)
		require.Error(t, err)

		_, err = service.Verify(ctx, item.ID, "storekeeper")
		require.NoError(t, err)

		resp, err := service.Release(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, fulfillment.PacketStatusReleased.String(), resp.Status)
	})

	t.Run("get by order item", func(t *testing.T) {
		env, item := setup(t)
		service := NewPacketService(env.scope)

		resp, err := service.GetByOrderItemID(ctx, item.ID)

		require.NoError(t, err)
		assert.Equal(t, item.ID, resp.OrderItemID)
		assert.Equal(t, []string{"shirt"}, resp.SectionsIncluded)
	})

	t.Run("missing packet reports not found", func(t *testing.T) {
		env := newTestEnv()
		service := NewPacketService(env.scope)

		_, err := service.GetByOrderItemID(ctx, uuid.New())
		require.Error(t, err)
	})
}
