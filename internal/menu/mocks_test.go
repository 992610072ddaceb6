package menu

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/appetiteclub/brew/internal/assistant"
)

// MockMenuItemRepo is a mock implementation of MenuItemRepo for testing
type MockMenuItemRepo struct {
	mu         sync.RWMutex
	items      map[uuid.UUID]*MenuItem
	CreateFunc func(ctx context.Context, item *MenuItem) error
	GetFunc    func(ctx context.Context, id uuid.UUID) (*MenuItem, error)
	SaveFunc   func(ctx context.Context, item *MenuItem) error
	DeleteFunc func(ctx context.Context, id uuid.UUID) error
}

func NewMockMenuItemRepo() *MockMenuItemRepo {
	return &MockMenuItemRepo{
		items: make(map[uuid.UUID]*MenuItem),
	}
}

func (m *MockMenuItemRepo) Create(ctx context.Context, item *MenuItem) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, item)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = item
	return nil
}

func (m *MockMenuItemRepo) Get(ctx context.Context, id uuid.UUID) (*MenuItem, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	return item, nil
}

func (m *MockMenuItemRepo) List(ctx context.Context) ([]*MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*MenuItem
	for _, item := range m.items {
		result = append(result, item)
	}
	return result, nil
}

func (m *MockMenuItemRepo) ListActive(ctx context.Context) ([]*MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*MenuItem
	for _, item := range m.items {
		if item.Active {
			result = append(result, item)
		}
	}
	return result, nil
}

func (m *MockMenuItemRepo) ListByCategory(ctx context.Context, category string) ([]*MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*MenuItem
	for _, item := range m.items {
		if item.Active && item.Category == category {
			result = append(result, item)
		}
	}
	return result, nil
}

func (m *MockMenuItemRepo) Save(ctx context.Context, item *MenuItem) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, item)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = item
	return nil
}

func (m *MockMenuItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

// MockAssistantClient is a mock implementation of assistant.Client for testing
type MockAssistantClient struct {
	SuggestDrinkFunc func(ctx context.Context, tastes []string) (*assistant.Suggestion, error)
}

func (m *MockAssistantClient) SuggestDrink(ctx context.Context, tastes []string) (*assistant.Suggestion, error) {
	if m.SuggestDrinkFunc != nil {
		return m.SuggestDrinkFunc(ctx, tastes)
	}
	return nil, nil
}
