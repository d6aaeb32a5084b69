package approval

import (
	"context"

	appfulfillment "github.com/garmentflow/backend/internal/application/fulfillment"
	"github.com/garmentflow/backend/internal/domain/order"
	"github.com/garmentflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ResetService performs the start-from-scratch rollback: the order and every
// item return to the inventory-check stage, and every downstream side effect
// (procurement demands, production tasks, assignments, packets) is unwound in
// one cascade keyed by the order's item ids. Stock already deducted for
// passed sections is not restored: those materials were cut and are sunk.
type ResetService struct {
	scope          appfulfillment.TransactionScope
	eventPublisher shared.EventPublisher
}

// NewResetService creates a new ResetService
func NewResetService(scope appfulfillment.TransactionScope) *ResetService {
	return &ResetService{scope: scope}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ResetService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// StartFromScratch resets the whole order. Valid only while the order is
// awaiting client approval and only with explicit confirmation; QA evidence
// is archived, not discarded.
func (s *ResetService) StartFromScratch(ctx context.Context, orderID uuid.UUID, req StartFromScratchRequest) (*OrderResponse, error) {
	if !req.Confirm {
		return nil, shared.NewDomainError("CONFIRMATION_REQUIRED", "Start from scratch requires explicit confirmation")
	}
	if req.Reason == "" {
		return nil, shared.NewDomainError("REASON_REQUIRED", "Start from scratch requires a reason")
	}

	var (
		ord    *order.Order
		events []shared.DomainEvent
	)
	err := s.scope.Execute(ctx, func(repos appfulfillment.TransactionalRepositories) error {
		var err error
		ord, err = repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := ord.ResetToInventoryCheck(req.Reason); err != nil {
			return err
		}

		items, err := repos.OrderItemRepo().FindByOrderID(ctx, orderID)
		if err != nil {
			return err
		}
		itemIDs := make([]uuid.UUID, 0, len(items))
		for _, item := range items {
			itemIDs = append(itemIDs, item.ID)
		}

		// One cascade for every downstream collection, keyed by item ids
		if err := repos.DemandRepo().DeleteByOrderItemIDs(ctx, itemIDs); err != nil {
			return err
		}
		if err := repos.TaskRepo().DeleteByOrderItemIDs(ctx, itemIDs); err != nil {
			return err
		}
		if err := repos.AssignmentRepo().DeleteByOrderItemIDs(ctx, itemIDs); err != nil {
			return err
		}
		if err := repos.PacketRepo().DeleteByOrderItemIDs(ctx, itemIDs); err != nil {
			return err
		}

		for _, item := range items {
			item.ResetToInventoryCheck(req.Reason)
			if err := repos.OrderItemRepo().SaveWithLock(ctx, item); err != nil {
				return err
			}
			events = append(events, item.GetDomainEvents()...)
			item.ClearDomainEvents()
		}

		if err := repos.OrderRepo().SaveWithLock(ctx, ord); err != nil {
			return err
		}
		events = append(events, ord.GetDomainEvents()...)
		ord.ClearDomainEvents()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil && len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
	}

	response := ToOrderResponse(ord)
	return &response, nil
}
