package persistence

import (
	"context"
	"errors"

	"github.com/garmentflow/backend/internal/domain/production"
	"github.com/garmentflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTaskRepository implements production.TaskRepository using GORM
type GormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GormTaskRepository
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// Save creates or updates a task
func (r *GormTaskRepository) Save(ctx context.Context, task *production.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// FindByID finds a task by its ID
func (r *GormTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*production.Task, error) {
	var task production.Task
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// FindByOrderItemID returns every task raised for an order item
func (r *GormTaskRepository) FindByOrderItemID(ctx context.Context, orderItemID uuid.UUID) ([]*production.Task, error) {
	var tasks []*production.Task
	if err := r.db.WithContext(ctx).
		Where("order_item_id = ?", orderItemID).
		Order("created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByStatus returns tasks in a given status
func (r *GormTaskRepository) FindByStatus(ctx context.Context, status production.TaskStatus, limit, offset int) ([]*production.Task, error) {
	var tasks []*production.Task
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// DeleteByOrderItemIDs removes every task for the given order items
func (r *GormTaskRepository) DeleteByOrderItemIDs(ctx context.Context, orderItemIDs []uuid.UUID) error {
	if len(orderItemIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Delete(&production.Task{}, "order_item_id IN ?", orderItemIDs).Error
}

// GormAssignmentRepository implements production.AssignmentRepository using GORM
type GormAssignmentRepository struct {
	db *gorm.DB
}

// NewGormAssignmentRepository creates a new GormAssignmentRepository
func NewGormAssignmentRepository(db *gorm.DB) *GormAssignmentRepository {
	return &GormAssignmentRepository{db: db}
}

// Save creates or updates an assignment
func (r *GormAssignmentRepository) Save(ctx context.Context, assignment *production.Assignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

// FindByTaskID returns every assignment of a task
func (r *GormAssignmentRepository) FindByTaskID(ctx context.Context, taskID uuid.UUID) ([]*production.Assignment, error) {
	var assignments []*production.Assignment
	if err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("assigned_at ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// DeleteByOrderItemIDs removes every assignment for the given order items
func (r *GormAssignmentRepository) DeleteByOrderItemIDs(ctx context.Context, orderItemIDs []uuid.UUID) error {
	if len(orderItemIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Delete(&production.Assignment{}, "order_item_id IN ?", orderItemIDs).Error
}

// Ensure implementations satisfy the domain interfaces
var (
	_ production.TaskRepository       = (*GormTaskRepository)(nil)
	_ production.AssignmentRepository = (*GormAssignmentRepository)(nil)
)
