// Package store owns the board's node and connection collections. It is
// the single owner of both; every other component reads through snapshots
// or accessor queries. All operations are total: unknown ids are no-ops,
// never failures, because the UI may race a delete against an in-flight
// async update.
package store

import (
	"context"
	"sync"
	"time"

	"tripboard-backend/internal/domain"
	"tripboard-backend/internal/repository"
	"tripboard-backend/pkg/observability"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GraphStore holds the live board state and coalesces persistence writes.
type GraphStore struct {
	mu    sync.Mutex
	nodes []domain.Node
	conns []domain.Connection

	repo     repository.Repository
	logger   *zap.Logger
	metrics  *observability.Metrics
	debounce time.Duration
	timer    *time.Timer
	closed   bool
}

// New creates a graph store backed by the given repository. Mutations are
// flushed at most once per debounce period.
func New(repo repository.Repository, logger *zap.Logger, metrics *observability.Metrics, debounce time.Duration) *GraphStore {
	return &GraphStore{
		repo:     repo,
		logger:   logger,
		metrics:  metrics,
		debounce: debounce,
	}
}

// Load reads the persisted collections, sanitizing every node field by
// field since stored data may be stale or partial.
func (s *GraphStore) Load(ctx context.Context) error {
	graph, err := s.repo.LoadGraph(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = make([]domain.Node, 0, len(graph.Nodes))
	for _, node := range graph.Nodes {
		if node.ID == "" {
			continue
		}
		node.Sanitize()
		s.nodes = append(s.nodes, node)
	}
	s.conns = append([]domain.Connection(nil), graph.Connections...)
	return nil
}

// AddNode inserts a node, assigning an id and timestamps when absent,
// and returns the stored value.
func (s *GraphStore) AddNode(node domain.Node) domain.Node {
	s.mu.Lock()
	defer s.mu.Unlock()

	if node.ID == "" {
		node.ID = uuid.New().String()
	}
	now := time.Now()
	if node.CreatedAt.IsZero() {
		node.CreatedAt = now
	}
	node.UpdatedAt = now
	node.Sanitize()

	s.nodes = append(s.nodes, node)
	s.metrics.RecordMutation("add_node")
	s.scheduleFlushLocked()
	return node
}

// GetNode returns a copy of the node with the given id
func (s *GraphStore) GetNode(id string) (domain.Node, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.nodes {
		if s.nodes[i].ID == id {
			return s.nodes[i], true
		}
	}
	return domain.Node{}, false
}

// UpdateNode applies a partial patch. A missing id is a silent no-op and
// returns false.
func (s *GraphStore) UpdateNode(id string, patch domain.NodePatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.nodes {
		if s.nodes[i].ID == id {
			s.nodes[i].Apply(patch)
			s.metrics.RecordMutation("update_node")
			s.scheduleFlushLocked()
			return true
		}
	}
	return false
}

// DeleteNode removes the node and cascades to every connection touching it.
// Unknown ids are no-ops.
func (s *GraphStore) DeleteNode(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.nodes {
		if s.nodes[i].ID == id {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return
	}

	s.deleteConnectionsTouchingLocked(id)
	s.metrics.RecordMutation("delete_node")
	s.scheduleFlushLocked()
}

// AddConnection links two nodes. The unordered pair is unique: if an edge
// already exists in either direction the call is a no-op. Self-loops are
// rejected. Returns the connection and whether it was created.
func (s *GraphStore) AddConnection(from, to string) (domain.Connection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if from == "" || to == "" || from == to {
		return domain.Connection{}, false
	}
	for _, c := range s.conns {
		if c.Links(from, to) {
			return c, false
		}
	}

	conn := domain.Connection{ID: uuid.New().String(), From: from, To: to}
	s.conns = append(s.conns, conn)
	s.metrics.RecordMutation("add_connection")
	s.scheduleFlushLocked()
	return conn, true
}

// DeleteConnectionsTouching removes every connection referencing the node id
func (s *GraphStore) DeleteConnectionsTouching(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.conns)
	s.deleteConnectionsTouchingLocked(id)
	if len(s.conns) != before {
		s.metrics.RecordMutation("delete_connections")
		s.scheduleFlushLocked()
	}
}

func (s *GraphStore) deleteConnectionsTouchingLocked(id string) {
	kept := s.conns[:0]
	for _, c := range s.conns {
		if !c.Touches(id) {
			kept = append(kept, c)
		}
	}
	s.conns = kept
}

// Snapshot returns an immutable copy of both collections for rendering
// and projections.
func (s *GraphStore) Snapshot() *domain.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	graph := &domain.Graph{
		Nodes:       make([]domain.Node, len(s.nodes)),
		Connections: make([]domain.Connection, len(s.conns)),
	}
	copy(graph.Nodes, s.nodes)
	copy(graph.Connections, s.conns)
	return graph
}

// NodeCount returns the number of nodes on the board
func (s *GraphStore) NodeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.nodes)
}

// ConnectionCount returns the number of connections on the board
func (s *GraphStore) ConnectionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// scheduleFlushLocked (re)arms the write-coalescing timer. At most one
// flush runs per settling period after the last mutation.
func (s *GraphStore) scheduleFlushLocked() {
	if s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Reset(s.debounce)
		return
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		if err := s.Flush(context.Background()); err != nil {
			s.logger.Error("debounced flush failed", zap.Error(err))
		}
	})
}

// Flush writes the current collections immediately
func (s *GraphStore) Flush(ctx context.Context) error {
	graph := s.Snapshot()
	if err := s.repo.SaveGraph(ctx, graph); err != nil {
		return err
	}
	s.metrics.RecordFlush()
	return nil
}

// Close stops the coalescing timer and performs a final flush
func (s *GraphStore) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	return s.Flush(ctx)
}
