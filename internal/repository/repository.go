// Package repository defines the persistence contract for the trip board.
// The board is stored as three logical records: the node collection, the
// connection collection and the AI endpoint configuration.
package repository

import (
	"context"

	"tripboard-backend/internal/domain"
)

// Repository is the persistence boundary for a single board.
type Repository interface {
	// LoadGraph reads the node and connection collections. A board that was
	// never saved yields an empty graph, not an error.
	LoadGraph(ctx context.Context) (*domain.Graph, error)

	// SaveGraph writes both collections, replacing the stored state.
	// Last write wins; callers coalesce writes.
	SaveGraph(ctx context.Context, graph *domain.Graph) error

	// LoadAIConfig reads the AI endpoint configuration. Absence yields the
	// zero config, not an error.
	LoadAIConfig(ctx context.Context) (domain.AIConfig, error)

	// SaveAIConfig writes the AI endpoint configuration immediately.
	SaveAIConfig(ctx context.Context, cfg domain.AIConfig) error
}
