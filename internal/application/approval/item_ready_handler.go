package approval

import (
	"context"

	appfulfillment "github.com/garmentflow/backend/internal/application/fulfillment"
	"github.com/garmentflow/backend/internal/domain/fulfillment"
	"github.com/garmentflow/backend/internal/domain/order"
	"github.com/garmentflow/backend/internal/domain/shared"
)

// ItemReadyHandler advances an order to ready-for-client-approval once every
// one of its items has cleared QA. Items already sent to or approved by the
// client count as cleared, so an alteration round on one item does not stall
// on its siblings.
type ItemReadyHandler struct {
	scope appfulfillment.TransactionScope
}

// NewItemReadyHandler creates a new ItemReadyHandler
func NewItemReadyHandler(scope appfulfillment.TransactionScope) *ItemReadyHandler {
	return &ItemReadyHandler{scope: scope}
}

// EventTypes returns the event types this handler is interested in
func (h *ItemReadyHandler) EventTypes() []string {
	return []string{fulfillment.EventTypeItemReadyForApproval}
}

// Handle checks whether the whole order is now ready for the client
func (h *ItemReadyHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	readyEvent, ok := event.(*fulfillment.ItemReadyForClientApprovalEvent)
	if !ok {
		return nil
	}

	return h.scope.Execute(ctx, func(repos appfulfillment.TransactionalRepositories) error {
		items, err := repos.OrderItemRepo().FindByOrderID(ctx, readyEvent.OrderID)
		if err != nil {
			return err
		}
		for _, item := range items {
			switch item.Status {
			case fulfillment.ItemStatusReadyForClientApproval,
				fulfillment.ItemStatusAwaitingClientApproval,
				fulfillment.ItemStatusClientApproved:
			default:
				return nil
			}
		}

		ord, err := repos.OrderRepo().FindByID(ctx, readyEvent.OrderID)
		if err != nil {
			return err
		}
		if ord.Status == order.StatusReadyForClientApproval {
			return nil
		}
		if err := ord.MarkReadyForClientApproval(); err != nil {
			return err
		}
		return repos.OrderRepo().SaveWithLock(ctx, ord)
	})
}

var _ shared.EventHandler = (*ItemReadyHandler)(nil)
