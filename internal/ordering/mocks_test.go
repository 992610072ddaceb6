package ordering

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/appetiteclub/apt/events"
	"github.com/google/uuid"
)

// MockPublisher is a mock implementation of events.Publisher for testing
type MockPublisher struct {
	mu          sync.Mutex
	Published   [][]byte
	PublishFunc func(ctx context.Context, topic string, msg []byte) error
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, msg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = append(m.Published, msg)
	return nil
}

// MockSubscriber is a mock implementation of events.Subscriber for testing
type MockSubscriber struct {
	SubscribeFunc func(ctx context.Context, topic string, handler events.HandlerFunc) error
}

func NewMockSubscriber() *MockSubscriber {
	return &MockSubscriber{}
}

func (m *MockSubscriber) Subscribe(ctx context.Context, topic string, handler events.HandlerFunc) error {
	if m.SubscribeFunc != nil {
		return m.SubscribeFunc(ctx, topic, handler)
	}
	return nil
}

// MockOrderRepo is a mock implementation of OrderRepo for testing
type MockOrderRepo struct {
	mu         sync.RWMutex
	orders     map[uuid.UUID]*Order
	CreateFunc func(ctx context.Context, order *Order) error
	GetFunc    func(ctx context.Context, id uuid.UUID) (*Order, error)
	DeleteFunc func(ctx context.Context, id uuid.UUID) error
}

func NewMockOrderRepo() *MockOrderRepo {
	return &MockOrderRepo{
		orders: make(map[uuid.UUID]*Order),
	}
}

func (m *MockOrderRepo) Create(ctx context.Context, order *Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, order)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = order
	return nil
}

func (m *MockOrderRepo) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	return order, nil
}

func (m *MockOrderRepo) List(ctx context.Context, statuses []FulfillmentStatus) ([]*Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*Order
	for _, o := range m.orders {
		if statusIn(o.Status, statuses) {
			result = append(result, o)
		}
	}
	return result, nil
}

func (m *MockOrderRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, statuses []FulfillmentStatus) ([]*Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*Order
	for _, o := range m.orders {
		if o.CustomerID == customerID && statusIn(o.Status, statuses) {
			result = append(result, o)
		}
	}
	return result, nil
}

func (m *MockOrderRepo) SetFulfillmentStatus(ctx context.Context, id uuid.UUID, status FulfillmentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return fmt.Errorf("order not found")
	}
	if err := CheckTransition(order.Status, status); err != nil {
		return err
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	return nil
}

func (m *MockOrderRepo) SetCustomerStatus(ctx context.Context, id uuid.UUID, status CustomerStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return fmt.Errorf("order not found")
	}
	order.CustomerStatus = status
	order.UpdatedAt = time.Now()
	return nil
}

func (m *MockOrderRepo) SetPickupTime(ctx context.Context, id uuid.UUID, pickup time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return fmt.Errorf("order not found")
	}
	order.PickupTime = pickup
	order.UpdatedAt = time.Now()
	return nil
}

func (m *MockOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.orders, id)
	return nil
}

func statusIn(status FulfillmentStatus, statuses []FulfillmentStatus) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

// MockOrderLineRepo is a mock implementation of OrderLineRepo for testing
type MockOrderLineRepo struct {
	mu         sync.RWMutex
	lines      map[uuid.UUID]*OrderLine
	CreateFunc func(ctx context.Context, line *OrderLine) error
}

func NewMockOrderLineRepo() *MockOrderLineRepo {
	return &MockOrderLineRepo{
		lines: make(map[uuid.UUID]*OrderLine),
	}
}

func (m *MockOrderLineRepo) Create(ctx context.Context, line *OrderLine) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, line)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines[line.ID] = line
	return nil
}

func (m *MockOrderLineRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*OrderLine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*OrderLine
	for _, line := range m.lines {
		if line.OrderID == orderID {
			result = append(result, line)
		}
	}
	return result, nil
}

func (m *MockOrderLineRepo) DeleteByOrder(ctx context.Context, orderID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, line := range m.lines {
		if line.OrderID == orderID {
			delete(m.lines, id)
		}
	}
	return nil
}
