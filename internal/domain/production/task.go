package production

import (
	"fmt"
	"time"

	"github.com/garmentflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TaskType classifies what kind of floor work a task represents
type TaskType string

const (
	TaskTypeStitching TaskType = "STITCHING"
	TaskTypeDyeing    TaskType = "DYEING"
)

// IsValid checks if the type is a valid TaskType
func (t TaskType) IsValid() bool {
	return t == TaskTypeStitching || t == TaskTypeDyeing
}

// String returns the string representation of TaskType
func (t TaskType) String() string {
	return string(t)
}

// TaskStatus tracks the lifecycle of a production task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusRejected   TaskStatus = "REJECTED"
)

// IsValid checks if the status is a valid TaskStatus
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of TaskStatus
func (s TaskStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s TaskStatus) CanTransitionTo(target TaskStatus) bool {
	switch s {
	case TaskStatusPending:
		return target == TaskStatusInProgress
	case TaskStatusInProgress:
		return target == TaskStatusCompleted || target == TaskStatusRejected
	case TaskStatusCompleted, TaskStatusRejected:
		return false // Terminal
	}
	return false
}

// Task is one unit of floor work for a single garment section
type Task struct {
	shared.BaseAggregateRoot
	OrderID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	OrderItemID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	Piece           string     `gorm:"size:60;not null"`
	Type            TaskType   `gorm:"size:20;not null"`
	Status          TaskStatus `gorm:"size:20;not null;index"`
	IsAlteration    bool       `gorm:"not null;default:false"`
	AlterationNotes string     `gorm:"size:500"`
	StartedAt       *time.Time
	CompletedAt     *time.Time
	RejectionReason string `gorm:"size:500"`
}

// TableName returns the table name for GORM
func (Task) TableName() string {
	return "production_tasks"
}

// NewTask creates a production task for one section
func NewTask(orderID, orderItemID uuid.UUID, piece string, taskType TaskType, isAlteration bool, alterationNotes string) (*Task, error) {
	if orderItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER_ITEM", "Order item ID cannot be empty")
	}
	if piece == "" {
		return nil, shared.NewDomainError("INVALID_PIECE", "Piece cannot be empty")
	}
	if !taskType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TASK_TYPE", "Unknown task type")
	}

	return &Task{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		OrderItemID:       orderItemID,
		Piece:             piece,
		Type:              taskType,
		Status:            TaskStatusPending,
		IsAlteration:      isAlteration,
		AlterationNotes:   alterationNotes,
	}, nil
}

// Start moves the task onto the floor
func (t *Task) Start() error {
	if err := t.transition(TaskStatusInProgress); err != nil {
		return err
	}
	now := time.Now()
	t.StartedAt = &now
	return nil
}

// Complete finishes the task
func (t *Task) Complete() error {
	if err := t.transition(TaskStatusCompleted); err != nil {
		return err
	}
	now := time.Now()
	t.CompletedAt = &now
	return nil
}

// Reject fails the task with a reason (e.g. a dyeing round that came out wrong)
func (t *Task) Reject(reason string) error {
	if err := t.transition(TaskStatusRejected); err != nil {
		return err
	}
	t.RejectionReason = reason
	return nil
}

func (t *Task) transition(target TaskStatus) error {
	if !t.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move task from %s to %s", t.Status, target))
	}
	t.Status = target
	t.UpdatedAt = time.Now()
	return nil
}

// Assignment links a task to the worker responsible for it
type Assignment struct {
	shared.BaseEntity
	TaskID      uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderItemID uuid.UUID `gorm:"type:uuid;not null;index"`
	WorkerName  string    `gorm:"size:100;not null"`
	AssignedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Assignment) TableName() string {
	return "production_assignments"
}

// NewAssignment assigns a task to a worker
func NewAssignment(taskID, orderItemID uuid.UUID, workerName string) (*Assignment, error) {
	if taskID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TASK", "Task ID cannot be empty")
	}
	if workerName == "" {
		return nil, shared.NewDomainError("INVALID_WORKER", "Worker name cannot be empty")
	}
	return &Assignment{
		BaseEntity:  shared.NewBaseEntity(),
		TaskID:      taskID,
		OrderItemID: orderItemID,
		WorkerName:  workerName,
		AssignedAt:  time.Now(),
	}, nil
}
