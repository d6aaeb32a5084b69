package approval

import (
	"context"
	"sync"

	appfulfillment "github.com/garmentflow/backend/internal/application/fulfillment"
	"github.com/garmentflow/backend/internal/domain/fulfillment"
	"github.com/garmentflow/backend/internal/domain/order"
	"github.com/garmentflow/backend/internal/domain/procurement"
	"github.com/garmentflow/backend/internal/domain/production"
	"github.com/garmentflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MockEventPublisher collects published events for assertions
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{events: make([]shared.DomainEvent, 0)}
}

func (m *MockEventPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) GetEventsByType(eventType string) []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []shared.DomainEvent
	for _, event := range m.events {
		if event.EventType() == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}

// MockOrderRepository is an in-memory order.Repository
type MockOrderRepository struct {
	orders map[uuid.UUID]*order.Order
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{orders: make(map[uuid.UUID]*order.Order)}
}

func (m *MockOrderRepository) Save(_ context.Context, o *order.Order) error {
	m.orders[o.ID] = o
	return nil
}

func (m *MockOrderRepository) SaveWithLock(_ context.Context, o *order.Order) error {
	m.orders[o.ID] = o
	return nil
}

func (m *MockOrderRepository) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return o, nil
}

func (m *MockOrderRepository) FindByOrderNumber(_ context.Context, orderNumber string) (*order.Order, error) {
	for _, o := range m.orders {
		if o.OrderNumber == orderNumber {
			return o, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *MockOrderRepository) FindByStatus(_ context.Context, status order.Status, _, _ int) ([]*order.Order, error) {
	var matched []*order.Order
	for _, o := range m.orders {
		if o.Status == status {
			matched = append(matched, o)
		}
	}
	return matched, nil
}

func (m *MockOrderRepository) List(_ context.Context, _, _ int) ([]*order.Order, error) {
	all := make([]*order.Order, 0, len(m.orders))
	for _, o := range m.orders {
		all = append(all, o)
	}
	return all, nil
}

// MockOrderItemRepository is an in-memory fulfillment.OrderItemRepository
type MockOrderItemRepository struct {
	items map[uuid.UUID]*fulfillment.OrderItem
}

func NewMockOrderItemRepository() *MockOrderItemRepository {
	return &MockOrderItemRepository{items: make(map[uuid.UUID]*fulfillment.OrderItem)}
}

func (m *MockOrderItemRepository) Save(_ context.Context, item *fulfillment.OrderItem) error {
	m.items[item.ID] = item
	return nil
}

func (m *MockOrderItemRepository) SaveWithLock(_ context.Context, item *fulfillment.OrderItem) error {
	m.items[item.ID] = item
	return nil
}

func (m *MockOrderItemRepository) FindByID(_ context.Context, id uuid.UUID) (*fulfillment.OrderItem, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return item, nil
}

func (m *MockOrderItemRepository) FindByOrderID(_ context.Context, orderID uuid.UUID) ([]*fulfillment.OrderItem, error) {
	var matched []*fulfillment.OrderItem
	for _, item := range m.items {
		if item.OrderID == orderID {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

func (m *MockOrderItemRepository) FindByStatus(_ context.Context, status fulfillment.ItemStatus, _, _ int) ([]*fulfillment.OrderItem, error) {
	var matched []*fulfillment.OrderItem
	for _, item := range m.items {
		if item.Status == status {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

func (m *MockOrderItemRepository) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

// MockPacketRepository is an in-memory fulfillment.PacketRepository
type MockPacketRepository struct {
	packets map[uuid.UUID]*fulfillment.Packet
}

func NewMockPacketRepository() *MockPacketRepository {
	return &MockPacketRepository{packets: make(map[uuid.UUID]*fulfillment.Packet)}
}

func (m *MockPacketRepository) Save(_ context.Context, packet *fulfillment.Packet) error {
	m.packets[packet.ID] = packet
	return nil
}

func (m *MockPacketRepository) FindByID(_ context.Context, id uuid.UUID) (*fulfillment.Packet, error) {
	packet, ok := m.packets[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return packet, nil
}

func (m *MockPacketRepository) FindByOrderItemID(_ context.Context, orderItemID uuid.UUID) (*fulfillment.Packet, error) {
	for _, packet := range m.packets {
		if packet.OrderItemID == orderItemID {
			return packet, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *MockPacketRepository) DeleteByOrderItemIDs(_ context.Context, orderItemIDs []uuid.UUID) error {
	for id, packet := range m.packets {
		for _, itemID := range orderItemIDs {
			if packet.OrderItemID == itemID {
				delete(m.packets, id)
			}
		}
	}
	return nil
}

func (m *MockPacketRepository) Count() int {
	return len(m.packets)
}

// MockDemandRepository is an in-memory procurement.Repository
type MockDemandRepository struct {
	demands map[uuid.UUID]*procurement.Demand
}

func NewMockDemandRepository() *MockDemandRepository {
	return &MockDemandRepository{demands: make(map[uuid.UUID]*procurement.Demand)}
}

func (m *MockDemandRepository) Save(_ context.Context, demand *procurement.Demand) error {
	m.demands[demand.ID] = demand
	return nil
}

func (m *MockDemandRepository) SaveAll(_ context.Context, demands []*procurement.Demand) error {
	for _, demand := range demands {
		m.demands[demand.ID] = demand
	}
	return nil
}

func (m *MockDemandRepository) FindByID(_ context.Context, id uuid.UUID) (*procurement.Demand, error) {
	demand, ok := m.demands[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return demand, nil
}

func (m *MockDemandRepository) FindByOrderItemID(_ context.Context, orderItemID uuid.UUID) ([]*procurement.Demand, error) {
	var matched []*procurement.Demand
	for _, demand := range m.demands {
		if demand.OrderItemID == orderItemID {
			matched = append(matched, demand)
		}
	}
	return matched, nil
}

func (m *MockDemandRepository) FindBlockingByOrderItemID(ctx context.Context, orderItemID uuid.UUID) ([]*procurement.Demand, error) {
	all, _ := m.FindByOrderItemID(ctx, orderItemID)
	var blocking []*procurement.Demand
	for _, demand := range all {
		if demand.Status.IsBlocking() {
			blocking = append(blocking, demand)
		}
	}
	return blocking, nil
}

func (m *MockDemandRepository) FindByStatus(_ context.Context, status procurement.DemandStatus, _, _ int) ([]*procurement.Demand, error) {
	var matched []*procurement.Demand
	for _, demand := range m.demands {
		if demand.Status == status {
			matched = append(matched, demand)
		}
	}
	return matched, nil
}

func (m *MockDemandRepository) DeleteByOrderItemID(_ context.Context, orderItemID uuid.UUID) error {
	for id, demand := range m.demands {
		if demand.OrderItemID == orderItemID {
			delete(m.demands, id)
		}
	}
	return nil
}

func (m *MockDemandRepository) DeleteByOrderItemIDs(ctx context.Context, orderItemIDs []uuid.UUID) error {
	for _, itemID := range orderItemIDs {
		if err := m.DeleteByOrderItemID(ctx, itemID); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockDemandRepository) Count() int {
	return len(m.demands)
}

// MockTaskRepository is an in-memory production.TaskRepository
type MockTaskRepository struct {
	tasks map[uuid.UUID]*production.Task
}

func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{tasks: make(map[uuid.UUID]*production.Task)}
}

func (m *MockTaskRepository) Save(_ context.Context, task *production.Task) error {
	m.tasks[task.ID] = task
	return nil
}

func (m *MockTaskRepository) FindByID(_ context.Context, id uuid.UUID) (*production.Task, error) {
	task, ok := m.tasks[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return task, nil
}

func (m *MockTaskRepository) FindByOrderItemID(_ context.Context, orderItemID uuid.UUID) ([]*production.Task, error) {
	var matched []*production.Task
	for _, task := range m.tasks {
		if task.OrderItemID == orderItemID {
			matched = append(matched, task)
		}
	}
	return matched, nil
}

func (m *MockTaskRepository) FindByStatus(_ context.Context, status production.TaskStatus, _, _ int) ([]*production.Task, error) {
	var matched []*production.Task
	for _, task := range m.tasks {
		if task.Status == status {
			matched = append(matched, task)
		}
	}
	return matched, nil
}

func (m *MockTaskRepository) DeleteByOrderItemIDs(_ context.Context, orderItemIDs []uuid.UUID) error {
	for id, task := range m.tasks {
		for _, itemID := range orderItemIDs {
			if task.OrderItemID == itemID {
				delete(m.tasks, id)
			}
		}
	}
	return nil
}

func (m *MockTaskRepository) Count() int {
	return len(m.tasks)
}

// MockAssignmentRepository is an in-memory production.AssignmentRepository
type MockAssignmentRepository struct {
	assignments map[uuid.UUID]*production.Assignment
}

func NewMockAssignmentRepository() *MockAssignmentRepository {
	return &MockAssignmentRepository{assignments: make(map[uuid.UUID]*production.Assignment)}
}

func (m *MockAssignmentRepository) Save(_ context.Context, assignment *production.Assignment) error {
	m.assignments[assignment.ID] = assignment
	return nil
}

func (m *MockAssignmentRepository) FindByTaskID(_ context.Context, taskID uuid.UUID) ([]*production.Assignment, error) {
	var matched []*production.Assignment
	for _, assignment := range m.assignments {
		if assignment.TaskID == taskID {
			matched = append(matched, assignment)
		}
	}
	return matched, nil
}

func (m *MockAssignmentRepository) DeleteByOrderItemIDs(_ context.Context, orderItemIDs []uuid.UUID) error {
	for id, assignment := range m.assignments {
		for _, itemID := range orderItemIDs {
			if assignment.OrderItemID == itemID {
				delete(m.assignments, id)
			}
		}
	}
	return nil
}

func (m *MockAssignmentRepository) Count() int {
	return len(m.assignments)
}

// testEnv bundles the in-memory repositories behind a no-op transaction scope.
// The approval flows never touch the inventory ledger, so those two slots stay
// nil.
type testEnv struct {
	scope       *appfulfillment.NoOpTransactionScope
	orders      *MockOrderRepository
	items       *MockOrderItemRepository
	packets     *MockPacketRepository
	demands     *MockDemandRepository
	tasks       *MockTaskRepository
	assignments *MockAssignmentRepository
}

func newTestEnv() *testEnv {
	env := &testEnv{
		orders:      NewMockOrderRepository(),
		items:       NewMockOrderItemRepository(),
		packets:     NewMockPacketRepository(),
		demands:     NewMockDemandRepository(),
		tasks:       NewMockTaskRepository(),
		assignments: NewMockAssignmentRepository(),
	}
	env.scope = appfulfillment.NewNoOpTransactionScope(
		env.orders, env.items, env.packets,
		nil, nil, env.demands,
		env.tasks, env.assignments,
	)
	return env
}

var _ shared.EventPublisher = (*MockEventPublisher)(nil)
