// Package mocks provides an in-memory repository for tests and for local
// runs without AWS credentials.
package mocks

import (
	"context"
	"sync"

	"tripboard-backend/internal/domain"
)

// MockRepository is an in-memory implementation of repository.Repository.
// Errors can be injected per method name to exercise failure paths.
type MockRepository struct {
	mu     sync.Mutex
	graph  domain.Graph
	config domain.AIConfig
	errors map[string]error
	saves  int
}

// NewMockRepository creates an empty in-memory repository
func NewMockRepository() *MockRepository {
	return &MockRepository{
		errors: make(map[string]error),
	}
}

// SetError configures an error to be returned by the named method
func (m *MockRepository) SetError(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[method] = err
}

// ClearErrors removes all configured errors
func (m *MockRepository) ClearErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = make(map[string]error)
}

// LoadGraph returns a copy of the stored graph
func (m *MockRepository) LoadGraph(ctx context.Context) (*domain.Graph, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errors["LoadGraph"]; err != nil {
		return nil, err
	}
	return copyGraph(&m.graph), nil
}

// SaveGraph stores a copy of the given graph
func (m *MockRepository) SaveGraph(ctx context.Context, graph *domain.Graph) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errors["SaveGraph"]; err != nil {
		return err
	}
	m.graph = *copyGraph(graph)
	m.saves++
	return nil
}

// SaveCount reports how many times SaveGraph ran, so tests can assert
// write coalescing. Guarded like every other accessor since the store's
// flush timer saves from its own goroutine.
func (m *MockRepository) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// LoadAIConfig returns the stored AI configuration
func (m *MockRepository) LoadAIConfig(ctx context.Context) (domain.AIConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errors["LoadAIConfig"]; err != nil {
		return domain.AIConfig{}, err
	}
	return m.config, nil
}

// SaveAIConfig stores the AI configuration
func (m *MockRepository) SaveAIConfig(ctx context.Context, cfg domain.AIConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errors["SaveAIConfig"]; err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Graph returns a copy of the stored graph for assertions
func (m *MockRepository) Graph() *domain.Graph {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyGraph(&m.graph)
}

func copyGraph(g *domain.Graph) *domain.Graph {
	out := &domain.Graph{
		Nodes:       make([]domain.Node, len(g.Nodes)),
		Connections: make([]domain.Connection, len(g.Connections)),
	}
	copy(out.Nodes, g.Nodes)
	copy(out.Connections, g.Connections)
	return out
}
