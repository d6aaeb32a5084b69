package approval

import (
	"context"
	"testing"

	"github.com/garmentflow/backend/internal/domain/fulfillment"
	"github.com/garmentflow/backend/internal/domain/order"
	"github.com/garmentflow/backend/internal/domain/procurement"
	"github.com/garmentflow/backend/internal/domain/production"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedDownstream plants one of every downstream side effect for the item
func seedDownstream(t *testing.T, env *testEnv, item *fulfillment.OrderItem) {
	t.Helper()
	ctx := context.Background()

	demand, err := procurement.NewDemand(item.OrderID, item.ID, uuid.New(), "FAB-COTTON", "Cotton",
		decimal.NewFromInt(4), decimal.NewFromInt(1), decimal.NewFromInt(3), "meter", "dupatta")
	require.NoError(t, err)
	require.NoError(t, env.demands.Save(ctx, demand))

	task, err := production.NewTask(item.OrderID, item.ID, "shirt", production.TaskTypeStitching, false, "")
	require.NoError(t, err)
	require.NoError(t, env.tasks.Save(ctx, task))

	assignment, err := production.NewAssignment(task.ID, item.ID, "tailor-1")
	require.NoError(t, err)
	require.NoError(t, env.assignments.Save(ctx, assignment))

	packet, err := fulfillment.NewPacket(item.ID, item.OrderID, []fulfillment.Piece{"shirt"}, nil, nil)
	require.NoError(t, err)
	require.NoError(t, env.packets.Save(ctx, packet))
}

func TestResetService_StartFromScratch(t *testing.T) {
	ctx := context.Background()

	t.Run("unwinds the whole workflow back to the inventory check", func(t *testing.T) {
		env := newTestEnv()
		ord, item := seedAwaitingApproval(t, env, 40000, "shirt", "dupatta")
		seedDownstream(t, env, item)
		service := NewResetService(env.scope)
		publisher := NewMockEventPublisher()
		service.SetEventPublisher(publisher)

		resp, err := service.StartFromScratch(ctx, ord.ID, StartFromScratchRequest{
			Confirm: true,
			Reason:  "measurements were wrong",
		})

		require.NoError(t, err)
		assert.Equal(t, order.StatusInventoryCheck.String(), resp.Status)
		assert.Nil(t, resp.SentToClientAt)
		assert.Nil(t, resp.ClientApprovalData)

		assert.Equal(t, fulfillment.ItemStatusInventoryCheck, item.Status)
		assert.Nil(t, item.PacketID)
		assert.False(t, item.SectionsChecked)

		// QA evidence archived, not discarded
		assert.Nil(t, item.VideoData)
		require.Len(t, item.ArchivedVideoData, 1)
		assert.Equal(t, "https://qa/walkthrough.mp4", item.ArchivedVideoData[0].URL)

		// Every downstream side effect gone
		assert.Zero(t, env.demands.Count())
		assert.Zero(t, env.tasks.Count())
		assert.Zero(t, env.assignments.Count())
		assert.Zero(t, env.packets.Count())

		assert.Len(t, publisher.GetEventsByType(fulfillment.EventTypeOrderItemReset), 1)
		assert.Len(t, publisher.GetEventsByType(order.EventTypeOrderReset), 1)
	})

	t.Run("payments survive the reset", func(t *testing.T) {
		env := newTestEnv()
		ord, _ := seedAwaitingApproval(t, env, 40000, "shirt")
		approvalService := NewApprovalService(env.scope)
		_, err := approvalService.RecordPayment(ctx, ord.ID, RecordPaymentRequest{
			Amount: decimal.NewFromInt(15000), ReceiptRef: "RCPT-1",
		})
		require.NoError(t, err)
		service := NewResetService(env.scope)

		resp, err := service.StartFromScratch(ctx, ord.ID, StartFromScratchRequest{
			Confirm: true,
			Reason:  "fabric swap",
		})

		require.NoError(t, err)
		assert.True(t, resp.PaidAmount.Equal(decimal.NewFromInt(15000)))
		assert.Len(t, resp.Payments, 1)
	})

	t.Run("requires explicit confirmation", func(t *testing.T) {
		env := newTestEnv()
		ord, _ := seedAwaitingApproval(t, env, 40000, "shirt")
		service := NewResetService(env.scope)

		_, err := service.StartFromScratch(ctx, ord.ID, StartFromScratchRequest{Reason: "typo"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "confirmation")
	})

	t.Run("requires a reason", func(t *testing.T) {
		env := newTestEnv()
		ord, _ := seedAwaitingApproval(t, env, 40000, "shirt")
		service := NewResetService(env.scope)

		_, err := service.StartFromScratch(ctx, ord.ID, StartFromScratchRequest{Confirm: true})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "reason")
	})

	t.Run("only an order awaiting client approval can be reset", func(t *testing.T) {
		env := newTestEnv()
		ord := seedOrder(t, env, 40000)
		service := NewResetService(env.scope)

		_, err := service.StartFromScratch(ctx, ord.ID, StartFromScratchRequest{
			Confirm: true,
			Reason:  "too early",
		})

		require.Error(t, err)
	})
}
