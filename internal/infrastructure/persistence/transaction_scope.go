package persistence

import (
	"context"

	appfulfillment "github.com/garmentflow/backend/internal/application/fulfillment"
	"github.com/garmentflow/backend/internal/domain/fulfillment"
	"github.com/garmentflow/backend/internal/domain/inventory"
	"github.com/garmentflow/backend/internal/domain/order"
	"github.com/garmentflow/backend/internal/domain/procurement"
	"github.com/garmentflow/backend/internal/domain/production"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appfulfillment.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// OrderRepo returns the order repository scoped to the current transaction
func (r *gormTransactionalRepositories) OrderRepo() order.Repository {
	return NewGormOrderRepository(r.tx)
}

// OrderItemRepo returns the order item repository scoped to the current transaction
func (r *gormTransactionalRepositories) OrderItemRepo() fulfillment.OrderItemRepository {
	return NewGormOrderItemRepository(r.tx)
}

// PacketRepo returns the packet repository scoped to the current transaction
func (r *gormTransactionalRepositories) PacketRepo() fulfillment.PacketRepository {
	return NewGormPacketRepository(r.tx)
}

// InventoryRepo returns the inventory ledger repository scoped to the current transaction
func (r *gormTransactionalRepositories) InventoryRepo() inventory.Repository {
	return NewGormInventoryRepository(r.tx)
}

// MovementRepo returns the stock movement repository scoped to the current transaction
func (r *gormTransactionalRepositories) MovementRepo() inventory.MovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

// DemandRepo returns the procurement demand repository scoped to the current transaction
func (r *gormTransactionalRepositories) DemandRepo() procurement.Repository {
	return NewGormDemandRepository(r.tx)
}

// TaskRepo returns the production task repository scoped to the current transaction
func (r *gormTransactionalRepositories) TaskRepo() production.TaskRepository {
	return NewGormTaskRepository(r.tx)
}

// AssignmentRepo returns the production assignment repository scoped to the current transaction
func (r *gormTransactionalRepositories) AssignmentRepo() production.AssignmentRepository {
	return NewGormAssignmentRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appfulfillment.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appfulfillment.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
