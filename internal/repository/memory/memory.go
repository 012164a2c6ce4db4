// Package memory provides an in-process repository for development and
// single-instance deployments without AWS credentials.
package memory

import (
	"context"
	"sync"

	"tripboard-backend/internal/domain"
)

// Repository keeps the board in process memory. Contents are lost on
// restart.
type Repository struct {
	mu     sync.Mutex
	graph  *domain.Graph
	config domain.AIConfig
}

// NewRepository creates an empty in-memory repository
func NewRepository() *Repository {
	return &Repository{}
}

// LoadGraph returns the last saved graph, or an empty one
func (r *Repository) LoadGraph(ctx context.Context) (*domain.Graph, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.graph == nil {
		return &domain.Graph{}, nil
	}
	return copyGraph(r.graph), nil
}

// SaveGraph stores a copy of the graph
func (r *Repository) SaveGraph(ctx context.Context, graph *domain.Graph) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.graph = copyGraph(graph)
	return nil
}

// LoadAIConfig returns the stored config; zero value when never saved
func (r *Repository) LoadAIConfig(ctx context.Context) (domain.AIConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.config, nil
}

// SaveAIConfig stores the config
func (r *Repository) SaveAIConfig(ctx context.Context, cfg domain.AIConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.config = cfg
	return nil
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
