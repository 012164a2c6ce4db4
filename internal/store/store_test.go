package store

import (
	"context"
	"testing"
	"time"

	"tripboard-backend/internal/domain"
	"tripboard-backend/internal/repository/mocks"
	"tripboard-backend/pkg/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"
)

func newTestStore(t *testing.T) (*GraphStore, *mocks.MockRepository) {
	t.Helper()
	repo := mocks.NewMockRepository()
	s := New(repo, zap.NewNop(), observability.NewNopMetrics(), 20*time.Millisecond)
	return s, repo
}

func TestAddAndGetNode(t *testing.T) {
	s, _ := newTestStore(t)

	added := s.AddNode(domain.Node{Title: "Tokyo", Type: domain.TypeLocation, X: 10, Y: 20})
	require.NotEmpty(t, added.ID)

	got, ok := s.GetNode(added.ID)
	require.True(t, ok)
	assert.Equal(t, "Tokyo", got.Title)
	assert.Equal(t, domain.TypeLocation, got.Type)
}

func TestAddNodeSanitizesFields(t *testing.T) {
	s, _ := newTestStore(t)

	added := s.AddNode(domain.Node{Type: "castle", Weather: 99})
	assert.Equal(t, domain.TypeNote, added.Type)
	assert.Equal(t, 0, added.Weather)
}

func TestUpdateNode(t *testing.T) {
	s, _ := newTestStore(t)

	t.Run("AppliesPartialPatch", func(t *testing.T) {
		n := s.AddNode(domain.Node{Title: "Old", Content: "keep me"})
		title := "New"
		ok := s.UpdateNode(n.ID, domain.NodePatch{Title: &title})
		require.True(t, ok)

		got, _ := s.GetNode(n.ID)
		assert.Equal(t, "New", got.Title)
		assert.Equal(t, "keep me", got.Content)
	})

	t.Run("UnknownIDIsNoOp", func(t *testing.T) {
		title := "ghost"
		assert.False(t, s.UpdateNode("missing", domain.NodePatch{Title: &title}))
	})
}

func TestAddConnectionIdempotentAcrossOrientation(t *testing.T) {
	s, _ := newTestStore(t)
	a := s.AddNode(domain.Node{Title: "A"})
	b := s.AddNode(domain.Node{Title: "B"})

	first, created := s.AddConnection(a.ID, b.ID)
	require.True(t, created)
	require.NotEmpty(t, first.ID)

	_, created = s.AddConnection(b.ID, a.ID)
	assert.False(t, created)
	assert.Equal(t, 1, s.ConnectionCount())
}

func TestAddConnectionRejectsSelfLoop(t *testing.T) {
	s, _ := newTestStore(t)
	a := s.AddNode(domain.Node{Title: "A"})

	_, created := s.AddConnection(a.ID, a.ID)
	assert.False(t, created)
	assert.Equal(t, 0, s.ConnectionCount())
}

func TestDeleteNodeCascades(t *testing.T) {
	s, _ := newTestStore(t)
	a := s.AddNode(domain.Node{Title: "A"})
	b := s.AddNode(domain.Node{Title: "B"})
	c := s.AddNode(domain.Node{Title: "C"})
	s.AddConnection(a.ID, b.ID)
	s.AddConnection(b.ID, c.ID)
	s.AddConnection(a.ID, c.ID)

	s.DeleteNode(b.ID)

	graph := s.Snapshot()
	assert.Len(t, graph.Nodes, 2)
	require.Len(t, graph.Connections, 1)
	assert.True(t, graph.Connections[0].Links(a.ID, c.ID))

	// no surviving connection references the deleted id
	for _, conn := range graph.Connections {
		assert.False(t, conn.Touches(b.ID))
	}
}

func TestDeleteNodeUnknownIDIsNoOp(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddNode(domain.Node{Title: "A"})
	s.DeleteNode("missing")
	assert.Equal(t, 1, s.NodeCount())
}

func TestSnapshotIsACopy(t *testing.T) {
	s, _ := newTestStore(t)
	n := s.AddNode(domain.Node{Title: "A"})

	graph := s.Snapshot()
	graph.Nodes[0].Title = "mutated"

	got, _ := s.GetNode(n.ID)
	assert.Equal(t, "A", got.Title)
}

func TestDebouncedFlushCoalescesWrites(t *testing.T) {
	s, repo := newTestStore(t)

	// burst of mutations inside one settling period
	a := s.AddNode(domain.Node{Title: "A"})
	b := s.AddNode(domain.Node{Title: "B"})
	s.AddConnection(a.ID, b.ID)

	assert.Eventually(t, func() bool {
		return repo.SaveCount() == 1
	}, time.Second, 5*time.Millisecond)

	// settle and confirm no extra writes arrive
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, repo.SaveCount())

	saved := repo.Graph()
	assert.Len(t, saved.Nodes, 2)
	assert.Len(t, saved.Connections, 1)
}

func TestCloseFlushesPendingState(t *testing.T) {
	repo := mocks.NewMockRepository()
	s := New(repo, zap.NewNop(), observability.NewNopMetrics(), time.Hour)

	s.AddNode(domain.Node{Title: "A"})
	require.NoError(t, s.Close(context.Background()))

	assert.Len(t, repo.Graph().Nodes, 1)
}

func TestLoadSanitizesPersistedNodes(t *testing.T) {
	repo := mocks.NewMockRepository()
	require.NoError(t, repo.SaveGraph(context.Background(), &domain.Graph{
		Nodes: []domain.Node{
			{ID: "n1", Type: "spaceship", Weather: -3},
			{Type: "location"}, // no id: dropped
		},
		Connections: []domain.Connection{{ID: "c1", From: "n1", To: "ghost"}},
	}))

	s := New(repo, zap.NewNop(), observability.NewNopMetrics(), time.Hour)
	require.NoError(t, s.Load(context.Background()))

	require.Equal(t, 1, s.NodeCount())
	got, _ := s.GetNode("n1")
	assert.Equal(t, domain.TypeNote, got.Type)
	assert.Equal(t, 0, got.Weather)

	// dangling connection survives in the store but is excluded from rendering
	graph := s.Snapshot()
	assert.Len(t, graph.Connections, 1)
	assert.Empty(t, graph.RenderableConnections())
}
