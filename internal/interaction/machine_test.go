package interaction

import (
	"testing"
	"time"

	"tripboard-backend/internal/canvas"
	"tripboard-backend/internal/domain"
	"tripboard-backend/internal/repository/mocks"
	"tripboard-backend/internal/store"
	"tripboard-backend/pkg/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"
)

func newTestMachine(t *testing.T) (*Machine, *store.GraphStore) {
	t.Helper()
	s := store.New(mocks.NewMockRepository(), zap.NewNop(), observability.NewNopMetrics(), time.Hour)
	return NewMachine(s, zap.NewNop()), s
}

func TestPanGesture(t *testing.T) {
	m, _ := newTestMachine(t)

	m.HandlePointerDown(PointerDown{X: 100, Y: 100, Target: TargetCanvas})
	assert.Equal(t, StatePanning, m.State())

	m.HandlePointerMove(PointerMove{X: 130, Y: 80})
	tr := m.Transform()
	assert.Equal(t, 30.0, tr.X)
	assert.Equal(t, -20.0, tr.Y)

	m.HandlePointerUp()
	assert.Equal(t, StateIdle, m.State())
}

func TestPanWithModifierOnNode(t *testing.T) {
	m, s := newTestMachine(t)
	n := s.AddNode(domain.Node{Title: "A"})

	m.HandlePointerDown(PointerDown{X: 0, Y: 0, Target: TargetNode, NodeID: n.ID, PanModifier: true})
	assert.Equal(t, StatePanning, m.State())
}

func TestDragGestureFollowsPointerExactly(t *testing.T) {
	m, s := newTestMachine(t)
	n := s.AddNode(domain.Node{Title: "A", X: 50, Y: 50})

	// zoomed and panned viewport; grab the handle 10px right of the origin
	m.HandleWheel(Wheel{DeltaY: -1000, ZoomModifier: true}) // scale 2.0
	m.HandleWheel(Wheel{DeltaX: -40, DeltaY: -20})          // pan (40, 20)

	tr := m.Transform()
	grabScreen := tr.ToScreen(canvas.Point{X: 60, Y: 50})
	m.HandlePointerDown(PointerDown{X: grabScreen.X, Y: grabScreen.Y, Target: TargetHandle, NodeID: n.ID})
	require.Equal(t, StateDragging, m.State())

	dest := tr.ToScreen(canvas.Point{X: 110, Y: 90})
	m.HandlePointerMove(PointerMove{X: dest.X, Y: dest.Y})

	got, _ := s.GetNode(n.ID)
	assert.InDelta(t, 100, got.X, 1e-9) // pointer world X minus grab offset 10
	assert.InDelta(t, 90, got.Y, 1e-9)

	m.HandlePointerLeave()
	assert.Equal(t, StateIdle, m.State())
}

func TestDragTargetDeletedMidDrag(t *testing.T) {
	m, s := newTestMachine(t)
	n := s.AddNode(domain.Node{Title: "A"})

	m.HandlePointerDown(PointerDown{X: 0, Y: 0, Target: TargetHandle, NodeID: n.ID})
	require.Equal(t, StateDragging, m.State())

	s.DeleteNode(n.ID)

	// must not panic, degrades to idle
	m.HandlePointerMove(PointerMove{X: 10, Y: 10})
	assert.Equal(t, StateIdle, m.State())
}

func TestConnectGesture(t *testing.T) {
	t.Run("LinkThenOtherNodeCreatesConnection", func(t *testing.T) {
		m, s := newTestMachine(t)
		a := s.AddNode(domain.Node{Title: "A"})
		b := s.AddNode(domain.Node{Title: "B"})

		m.HandlePointerDown(PointerDown{Target: TargetLink, NodeID: a.ID})
		assert.Equal(t, StateConnecting, m.State())
		assert.Equal(t, a.ID, m.ConnectSource())

		// click survives the release
		m.HandlePointerUp()
		assert.Equal(t, StateConnecting, m.State())

		m.HandlePointerDown(PointerDown{Target: TargetNode, NodeID: b.ID})
		assert.Equal(t, StateIdle, m.State())
		assert.Equal(t, 1, s.ConnectionCount())
	})

	t.Run("ClickSourceAgainCancels", func(t *testing.T) {
		m, s := newTestMachine(t)
		a := s.AddNode(domain.Node{Title: "A"})

		m.HandlePointerDown(PointerDown{Target: TargetLink, NodeID: a.ID})
		m.HandlePointerDown(PointerDown{Target: TargetLink, NodeID: a.ID})
		assert.Equal(t, StateIdle, m.State())
		assert.Equal(t, 0, s.ConnectionCount())
	})

	t.Run("ClickEmptyCanvasCancels", func(t *testing.T) {
		m, s := newTestMachine(t)
		a := s.AddNode(domain.Node{Title: "A"})

		m.HandlePointerDown(PointerDown{Target: TargetLink, NodeID: a.ID})
		m.HandlePointerDown(PointerDown{X: 5, Y: 5, Target: TargetCanvas})
		assert.Equal(t, StateIdle, m.State())
		assert.Equal(t, 0, s.ConnectionCount())
	})

	t.Run("ExistingEdgeNotDuplicated", func(t *testing.T) {
		m, s := newTestMachine(t)
		a := s.AddNode(domain.Node{Title: "A"})
		b := s.AddNode(domain.Node{Title: "B"})
		s.AddConnection(b.ID, a.ID)

		m.HandlePointerDown(PointerDown{Target: TargetLink, NodeID: a.ID})
		m.HandlePointerDown(PointerDown{Target: TargetNode, NodeID: b.ID})
		assert.Equal(t, 1, s.ConnectionCount())
	})
}

func TestWheelZoomClamped(t *testing.T) {
	m, _ := newTestMachine(t)

	m.HandleWheel(Wheel{DeltaY: -1e9, ZoomModifier: true})
	assert.Equal(t, canvas.MaxScale, m.Transform().Scale)

	m.HandleWheel(Wheel{DeltaY: 1e9, ZoomModifier: true})
	assert.Equal(t, canvas.MinScale, m.Transform().Scale)
}

func TestPlainWheelPans(t *testing.T) {
	m, _ := newTestMachine(t)
	m.HandleWheel(Wheel{DeltaX: 15, DeltaY: -25})
	tr := m.Transform()
	assert.Equal(t, -15.0, tr.X)
	assert.Equal(t, 25.0, tr.Y)
}

func TestZoomControls(t *testing.T) {
	m, _ := newTestMachine(t)

	m.ZoomIn()
	assert.InDelta(t, 1.2, m.Transform().Scale, 1e-9)

	m.ResetView()
	assert.Equal(t, canvas.NewTransform(), m.Transform())

	for i := 0; i < 50; i++ {
		m.ZoomOut()
	}
	assert.Equal(t, canvas.MinScale, m.Transform().Scale)
}

func TestOnlyOneGestureAtATime(t *testing.T) {
	m, s := newTestMachine(t)
	n := s.AddNode(domain.Node{Title: "A"})

	m.HandlePointerDown(PointerDown{Target: TargetCanvas})
	require.Equal(t, StatePanning, m.State())

	// a second press while panning cannot start a drag
	m.HandlePointerDown(PointerDown{Target: TargetHandle, NodeID: n.ID})
	assert.Equal(t, StatePanning, m.State())
}
