// Package interaction translates raw pointer and wheel events into graph
// store mutations and canvas transform changes. Exactly one gesture is
// active at a time; gestures never error, they degrade to no-ops.
package interaction

import (
	"sync"

	"tripboard-backend/internal/canvas"
	"tripboard-backend/internal/domain"
	"tripboard-backend/internal/store"

	"go.uber.org/zap"
)

// State identifies the active gesture
type State string

const (
	StateIdle       State = "idle"
	StatePanning    State = "panning"
	StateDragging   State = "dragging"
	StateConnecting State = "connecting"
)

// Target identifies what a pointer-down landed on
type Target string

const (
	TargetCanvas Target = "canvas"
	TargetNode   Target = "node"
	TargetHandle Target = "handle"
	TargetLink   Target = "link"
)

// DefaultZoomSpeed converts wheel deltas into scale deltas
const DefaultZoomSpeed = 0.001

// PointerDown is a button press at a screen position
type PointerDown struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Target      Target  `json:"target"`
	NodeID      string  `json:"node_id,omitempty"`
	PanModifier bool    `json:"pan_modifier,omitempty"`
}

// PointerMove is a pointer position update
type PointerMove struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Wheel is a scroll event; with the zoom modifier held it zooms,
// otherwise it pans.
type Wheel struct {
	DeltaX       float64 `json:"delta_x"`
	DeltaY       float64 `json:"delta_y"`
	ZoomModifier bool    `json:"zoom_modifier,omitempty"`
}

// Machine is the pan/drag/connect gesture state machine. It owns the
// canvas transform and mutates the graph store as gestures progress.
type Machine struct {
	mu        sync.Mutex
	state     State
	transform canvas.Transform

	lastPointer   canvas.Point
	dragNodeID    string
	grabOffset    canvas.Point // world-space offset from pointer to node origin
	connectSource string

	store     *store.GraphStore
	logger    *zap.Logger
	zoomSpeed float64
}

// NewMachine creates an idle machine with the identity transform
func NewMachine(graphStore *store.GraphStore, logger *zap.Logger) *Machine {
	return &Machine{
		state:     StateIdle,
		transform: canvas.NewTransform(),
		store:     graphStore,
		logger:    logger,
		zoomSpeed: DefaultZoomSpeed,
	}
}

// State returns the active gesture
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// ConnectSource returns the source node id while connecting, else ""
func (m *Machine) ConnectSource() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectSource
}

// Transform returns the current canvas transform
func (m *Machine) Transform() canvas.Transform {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transform
}

// HandlePointerDown starts or resolves a gesture. The mutually exclusive
// targets (canvas, node handle, link affordance) ensure only one gesture
// can start per press.
func (m *Machine) HandlePointerDown(ev PointerDown) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pointer := canvas.Point{X: ev.X, Y: ev.Y}

	// A pending connect gesture resolves on the next press, whatever it hits.
	if m.state == StateConnecting {
		m.resolveConnectLocked(ev)
		return
	}

	if m.state != StateIdle {
		return
	}

	switch {
	case ev.Target == TargetCanvas || ev.PanModifier:
		m.state = StatePanning
		m.lastPointer = pointer

	case ev.Target == TargetHandle:
		node, ok := m.store.GetNode(ev.NodeID)
		if !ok {
			return
		}
		world := m.transform.ToWorld(pointer)
		m.state = StateDragging
		m.dragNodeID = node.ID
		m.grabOffset = canvas.Point{X: world.X - node.X, Y: world.Y - node.Y}

	case ev.Target == TargetLink:
		if _, ok := m.store.GetNode(ev.NodeID); !ok {
			return
		}
		m.state = StateConnecting
		m.connectSource = ev.NodeID
	}
}

// resolveConnectLocked finishes or cancels a connect gesture
func (m *Machine) resolveConnectLocked(ev PointerDown) {
	source := m.connectSource
	m.state = StateIdle
	m.connectSource = ""

	if ev.Target == TargetCanvas || ev.NodeID == "" || ev.NodeID == source {
		return // cancelled
	}
	if _, ok := m.store.GetNode(ev.NodeID); !ok {
		return
	}
	m.store.AddConnection(source, ev.NodeID)
}

// HandlePointerMove advances the active gesture
func (m *Machine) HandlePointerMove(ev PointerMove) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pointer := canvas.Point{X: ev.X, Y: ev.Y}

	switch m.state {
	case StatePanning:
		m.transform = m.transform.PanBy(pointer.X-m.lastPointer.X, pointer.Y-m.lastPointer.Y)
		m.lastPointer = pointer

	case StateDragging:
		// The node follows the pointer exactly: position derives from the
		// current pointer, transform and the grab-time offset.
		world := m.transform.ToWorld(pointer)
		x := world.X - m.grabOffset.X
		y := world.Y - m.grabOffset.Y
		if !m.store.UpdateNode(m.dragNodeID, domain.NodePatch{X: &x, Y: &y}) {
			// target deleted mid-drag, e.g. by a concurrent AI mutation
			m.logger.Debug("drag target vanished", zap.String("nodeID", m.dragNodeID))
			m.state = StateIdle
			m.dragNodeID = ""
		}
	}
}

// HandlePointerUp ends press-driven gestures. A pending connect gesture
// is click-based and survives the release.
func (m *Machine) HandlePointerUp() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StatePanning || m.state == StateDragging {
		m.state = StateIdle
		m.dragNodeID = ""
	}
}

// HandlePointerLeave behaves like a release
func (m *Machine) HandlePointerLeave() {
	m.HandlePointerUp()
}

// HandleWheel zooms with the modifier held, pans otherwise
func (m *Machine) HandleWheel(ev Wheel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ev.ZoomModifier {
		m.transform = m.transform.ZoomBy(-ev.DeltaY * m.zoomSpeed)
	} else {
		m.transform = m.transform.PanBy(-ev.DeltaX, -ev.DeltaY)
	}
}

// ZoomIn steps the scale up, clamped
func (m *Machine) ZoomIn() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transform = m.transform.ZoomBy(0.2)
}

// ZoomOut steps the scale down, clamped
func (m *Machine) ZoomOut() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transform = m.transform.ZoomBy(-0.2)
}

// ResetView restores the identity transform
func (m *Machine) ResetView() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transform = canvas.NewTransform()
}
