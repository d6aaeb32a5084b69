package fulfillment

import (
	"context"

	"github.com/garmentflow/backend/internal/domain/fulfillment"
	"github.com/garmentflow/backend/internal/domain/inventory"
	"github.com/garmentflow/backend/internal/domain/order"
	"github.com/garmentflow/backend/internal/domain/procurement"
	"github.com/garmentflow/backend/internal/domain/production"
)

// TransactionScope provides transactional access to the repositories a
// workflow operation touches. Every check, rerun and reset is one atomic
// unit: all section, ledger, demand and packet mutations for a call commit
// together or not at all.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all workflow repositories
// within a transaction. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// OrderRepo returns the order repository scoped to the current transaction
	OrderRepo() order.Repository
	// OrderItemRepo returns the order item repository scoped to the current transaction
	OrderItemRepo() fulfillment.OrderItemRepository
	// PacketRepo returns the packet repository scoped to the current transaction
	PacketRepo() fulfillment.PacketRepository
	// InventoryRepo returns the inventory ledger repository scoped to the current transaction
	InventoryRepo() inventory.Repository
	// MovementRepo returns the stock movement repository scoped to the current transaction
	MovementRepo() inventory.MovementRepository
	// DemandRepo returns the procurement demand repository scoped to the current transaction
	DemandRepo() procurement.Repository
	// TaskRepo returns the production task repository scoped to the current transaction
	TaskRepo() production.TaskRepository
	// AssignmentRepo returns the production assignment repository scoped to the current transaction
	AssignmentRepo() production.AssignmentRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing or when transaction support is
// not required.
type NoOpTransactionScope struct {
	orderRepo      order.Repository
	orderItemRepo  fulfillment.OrderItemRepository
	packetRepo     fulfillment.PacketRepository
	inventoryRepo  inventory.Repository
	movementRepo   inventory.MovementRepository
	demandRepo     procurement.Repository
	taskRepo       production.TaskRepository
	assignmentRepo production.AssignmentRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	orderRepo order.Repository,
	orderItemRepo fulfillment.OrderItemRepository,
	packetRepo fulfillment.PacketRepository,
	inventoryRepo inventory.Repository,
	movementRepo inventory.MovementRepository,
	demandRepo procurement.Repository,
	taskRepo production.TaskRepository,
	assignmentRepo production.AssignmentRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orderRepo:      orderRepo,
		orderItemRepo:  orderItemRepo,
		packetRepo:     packetRepo,
		inventoryRepo:  inventoryRepo,
		movementRepo:   movementRepo,
		demandRepo:     demandRepo,
		taskRepo:       taskRepo,
		assignmentRepo: assignmentRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the order repository.
func (s *NoOpTransactionScope) OrderRepo() order.Repository {
	return s.orderRepo
}

// OrderItemRepo returns the order item repository.
func (s *NoOpTransactionScope) OrderItemRepo() fulfillment.OrderItemRepository {
	return s.orderItemRepo
}

// PacketRepo returns the packet repository.
func (s *NoOpTransactionScope) PacketRepo() fulfillment.PacketRepository {
	return s.packetRepo
}

// InventoryRepo returns the inventory ledger repository.
func (s *NoOpTransactionScope) InventoryRepo() inventory.Repository {
	return s.inventoryRepo
}

// MovementRepo returns the stock movement repository.
func (s *NoOpTransactionScope) MovementRepo() inventory.MovementRepository {
	return s.movementRepo
}

// DemandRepo returns the procurement demand repository.
func (s *NoOpTransactionScope) DemandRepo() procurement.Repository {
	return s.demandRepo
}

// TaskRepo returns the production task repository.
func (s *NoOpTransactionScope) TaskRepo() production.TaskRepository {
	return s.taskRepo
}

// AssignmentRepo returns the production assignment repository.
func (s *NoOpTransactionScope) AssignmentRepo() production.AssignmentRepository {
	return s.assignmentRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
