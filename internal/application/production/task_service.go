package production

import (
	"context"
	"time"

	appfulfillment "github.com/garmentflow/backend/internal/application/fulfillment"
	"github.com/garmentflow/backend/internal/domain/fulfillment"
	"github.com/garmentflow/backend/internal/domain/production"
	"github.com/garmentflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TaskService runs the floor side of the workflow. Completing or rejecting a
// task writes the outcome back onto the order item's section, so the task
// lifecycle and the section sub-state stay in one transaction.
type TaskService struct {
	scope          appfulfillment.TransactionScope
	eventPublisher shared.EventPublisher
}

// NewTaskService creates a new TaskService
func NewTaskService(scope appfulfillment.TransactionScope) *TaskService {
	return &TaskService{scope: scope}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *TaskService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// TaskResponse is the API view of a production task
type TaskResponse struct {
	ID              uuid.UUID  `json:"id"`
	OrderID         uuid.UUID  `json:"order_id"`
	OrderItemID     uuid.UUID  `json:"order_item_id"`
	Piece           string     `json:"piece"`
	Type            string     `json:"type"`
	Status          string     `json:"status"`
	IsAlteration    bool       `json:"is_alteration"`
	AlterationNotes string     `json:"alteration_notes,omitempty"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
}

// ToTaskResponse converts a Task aggregate to its API view
func ToTaskResponse(t *production.Task) TaskResponse {
	return TaskResponse{
		ID:              t.ID,
		OrderID:         t.OrderID,
		OrderItemID:     t.OrderItemID,
		Piece:           t.Piece,
		Type:            t.Type.String(),
		Status:          t.Status.String(),
		IsAlteration:    t.IsAlteration,
		AlterationNotes: t.AlterationNotes,
		StartedAt:       t.StartedAt,
		CompletedAt:     t.CompletedAt,
		RejectionReason: t.RejectionReason,
	}
}

// ListByOrderItem returns every task for an order item
func (s *TaskService) ListByOrderItem(ctx context.Context, orderItemID uuid.UUID) ([]TaskResponse, error) {
	var responses []TaskResponse
	err := s.scope.Execute(ctx, func(repos appfulfillment.TransactionalRepositories) error {
		tasks, err := repos.TaskRepo().FindByOrderItemID(ctx, orderItemID)
		if err != nil {
			return err
		}
		responses = make([]TaskResponse, 0, len(tasks))
		for _, task := range tasks {
			responses = append(responses, ToTaskResponse(task))
		}
		return nil
	})
	return responses, err
}

// Assign puts a worker on a task
func (s *TaskService) Assign(ctx context.Context, taskID uuid.UUID, workerName string) error {
	return s.scope.Execute(ctx, func(repos appfulfillment.TransactionalRepositories) error {
		task, err := repos.TaskRepo().FindByID(ctx, taskID)
		if err != nil {
			return err
		}
		assignment, err := production.NewAssignment(task.ID, task.OrderItemID, workerName)
		if err != nil {
			return err
		}
		return repos.AssignmentRepo().Save(ctx, assignment)
	})
}

// Start begins the task and marks the section in progress
func (s *TaskService) Start(ctx context.Context, taskID uuid.UUID) (*TaskResponse, error) {
	var task *production.Task
	err := s.scope.Execute(ctx, func(repos appfulfillment.TransactionalRepositories) error {
		var err error
		task, err = repos.TaskRepo().FindByID(ctx, taskID)
		if err != nil {
			return err
		}
		if err := task.Start(); err != nil {
			return err
		}

		item, err := repos.OrderItemRepo().FindByID(ctx, task.OrderItemID)
		if err != nil {
			return err
		}
		piece, err := fulfillment.NewPiece(task.Piece)
		if err != nil {
			return err
		}
		switch task.Type {
		case production.TaskTypeStitching:
			err = item.StartProduction(piece, task.ID)
		case production.TaskTypeDyeing:
			err = item.StartDyeing(piece)
		}
		if err != nil {
			return err
		}

		if err := repos.OrderItemRepo().SaveWithLock(ctx, item); err != nil {
			return err
		}
		return repos.TaskRepo().Save(ctx, task)
	})
	if err != nil {
		return nil, err
	}
	response := ToTaskResponse(task)
	return &response, nil
}

// Complete finishes the task and advances the section: a stitching section
// queues for dyeing, a dyed section moves to QA
func (s *TaskService) Complete(ctx context.Context, taskID uuid.UUID) (*TaskResponse, error) {
	var (
		task   *production.Task
		events []shared.DomainEvent
	)
	err := s.scope.Execute(ctx, func(repos appfulfillment.TransactionalRepositories) error {
		var err error
		task, err = repos.TaskRepo().FindByID(ctx, taskID)
		if err != nil {
			return err
		}
		if err := task.Complete(); err != nil {
			return err
		}

		item, err := repos.OrderItemRepo().FindByID(ctx, task.OrderItemID)
		if err != nil {
			return err
		}
		piece, err := fulfillment.NewPiece(task.Piece)
		if err != nil {
			return err
		}
		switch task.Type {
		case production.TaskTypeStitching:
			err = item.CompleteProduction(piece)
		case production.TaskTypeDyeing:
			err = item.CompleteDyeing(piece)
		}
		if err != nil {
			return err
		}

		if err := repos.OrderItemRepo().SaveWithLock(ctx, item); err != nil {
			return err
		}
		events = append(events, item.GetDomainEvents()...)
		item.ClearDomainEvents()
		return repos.TaskRepo().Save(ctx, task)
	})
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil && len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
	}

	response := ToTaskResponse(task)
	return &response, nil
}

// RejectDyeing fails a dyeing round. The section drops all the way back to
// pending inventory check and is evicted from the item's packet: its
// previously reserved materials are treated as consumed and a later rerun
// must reserve fresh stock.
func (s *TaskService) RejectDyeing(ctx context.Context, taskID uuid.UUID, reason string) (*TaskResponse, error) {
	var task *production.Task
	err := s.scope.Execute(ctx, func(repos appfulfillment.TransactionalRepositories) error {
		var err error
		task, err = repos.TaskRepo().FindByID(ctx, taskID)
		if err != nil {
			return err
		}
		if task.Type != production.TaskTypeDyeing {
			return shared.NewDomainError("INVALID_STATE", "Only dyeing tasks can be rejected")
		}
		if err := task.Reject(reason); err != nil {
			return err
		}

		item, err := repos.OrderItemRepo().FindByID(ctx, task.OrderItemID)
		if err != nil {
			return err
		}
		piece, err := fulfillment.NewPiece(task.Piece)
		if err != nil {
			return err
		}
		if err := item.RejectDyeing(piece, reason); err != nil {
			return err
		}

		if item.PacketID != nil {
			packet, err := repos.PacketRepo().FindByOrderItemID(ctx, item.ID)
			if err != nil {
				return err
			}
			if err := packet.Evict(piece); err != nil {
				return err
			}
			if err := repos.PacketRepo().Save(ctx, packet); err != nil {
				return err
			}
		}

		if err := repos.OrderItemRepo().SaveWithLock(ctx, item); err != nil {
			return err
		}
		return repos.TaskRepo().Save(ctx, task)
	})
	if err != nil {
		return nil, err
	}
	response := ToTaskResponse(task)
	return &response, nil
}
