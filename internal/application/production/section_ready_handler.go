package production

import (
	"context"

	appfulfillment "github.com/garmentflow/backend/internal/application/fulfillment"
	"github.com/garmentflow/backend/internal/domain/fulfillment"
	"github.com/garmentflow/backend/internal/domain/production"
	"github.com/garmentflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SectionReadyHandler turns section status transitions into floor work: a
// stitching task when a section is released to production, a dyeing task when
// stitching completes
type SectionReadyHandler struct {
	scope appfulfillment.TransactionScope
}

// NewSectionReadyHandler creates a new SectionReadyHandler
func NewSectionReadyHandler(scope appfulfillment.TransactionScope) *SectionReadyHandler {
	return &SectionReadyHandler{scope: scope}
}

// EventTypes returns the event types this handler is interested in
func (h *SectionReadyHandler) EventTypes() []string {
	return []string{
		fulfillment.EventTypeSectionReadyForProduction,
		fulfillment.EventTypeSectionReadyForDyeing,
	}
}

// Handle creates the production task for the section the event names
func (h *SectionReadyHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *fulfillment.SectionReadyForProductionEvent:
		return h.createTask(ctx, e.OrderID, e.AggregateID(), e.Piece, production.TaskTypeStitching, e.IsAlteration, e.AlterationNotes)
	case *fulfillment.SectionReadyForDyeingEvent:
		return h.createTask(ctx, e.OrderID, e.AggregateID(), e.Piece, production.TaskTypeDyeing, false, "")
	}
	return nil
}

func (h *SectionReadyHandler) createTask(ctx context.Context, orderID, orderItemID uuid.UUID, piece fulfillment.Piece, taskType production.TaskType, isAlteration bool, notes string) error {
	task, err := production.NewTask(orderID, orderItemID, piece.String(), taskType, isAlteration, notes)
	if err != nil {
		return err
	}
	return h.scope.Execute(ctx, func(repos appfulfillment.TransactionalRepositories) error {
		return repos.TaskRepo().Save(ctx, task)
	})
}

var _ shared.EventHandler = (*SectionReadyHandler)(nil)
