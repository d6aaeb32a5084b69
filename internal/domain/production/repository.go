package production

import (
	"context"

	"github.com/google/uuid"
)

// TaskRepository persists production tasks
type TaskRepository interface {
	Save(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)
	FindByOrderItemID(ctx context.Context, orderItemID uuid.UUID) ([]*Task, error)
	FindByStatus(ctx context.Context, status TaskStatus, limit, offset int) ([]*Task, error)
	// DeleteByOrderItemIDs is the cascade hook for the start-from-scratch
	// reset: every task referencing any of the given items is removed.
	DeleteByOrderItemIDs(ctx context.Context, orderItemIDs []uuid.UUID) error
}

// AssignmentRepository persists task assignments
type AssignmentRepository interface {
	Save(ctx context.Context, assignment *Assignment) error
	FindByTaskID(ctx context.Context, taskID uuid.UUID) ([]*Assignment, error)
	DeleteByOrderItemIDs(ctx context.Context, orderItemIDs []uuid.UUID) error
}
