package handlers

import (
	"encoding/json"
	"net/http"

	"tripboard-backend/internal/canvas"
	"tripboard-backend/internal/interaction"
	"tripboard-backend/internal/store"
	"tripboard-backend/pkg/api"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// CanvasHandler feeds pointer and wheel events into the interaction
// machine and reports the viewport state
type CanvasHandler struct {
	machine  *interaction.Machine
	store    *store.GraphStore
	minimap  canvas.Minimap
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCanvasHandler creates a canvas handler
func NewCanvasHandler(m *interaction.Machine, s *store.GraphStore, validate *validator.Validate, logger *zap.Logger) *CanvasHandler {
	return &CanvasHandler{machine: m, store: s, minimap: canvas.DefaultMinimap(), validate: validate, logger: logger}
}

// PostEvent handles POST /api/canvas/events
func (h *CanvasHandler) PostEvent(w http.ResponseWriter, r *http.Request) {
	var req api.CanvasEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	switch req.Kind {
	case "pointerdown":
		h.machine.HandlePointerDown(interaction.PointerDown{
			X:           req.X,
			Y:           req.Y,
			Target:      interaction.Target(req.Target),
			NodeID:      req.NodeID,
			PanModifier: req.PanModifier,
		})
	case "pointermove":
		h.machine.HandlePointerMove(interaction.PointerMove{X: req.X, Y: req.Y})
	case "pointerup":
		h.machine.HandlePointerUp()
	case "pointerleave":
		h.machine.HandlePointerLeave()
	case "wheel":
		h.machine.HandleWheel(interaction.Wheel{
			DeltaX:       req.DeltaX,
			DeltaY:       req.DeltaY,
			ZoomModifier: req.ZoomModifier,
		})
	}

	api.Success(w, http.StatusOK, h.stateResponse())
}

// GetState handles GET /api/canvas
func (h *CanvasHandler) GetState(w http.ResponseWriter, r *http.Request) {
	api.Success(w, http.StatusOK, h.stateResponse())
}

// ZoomIn handles POST /api/canvas/zoom-in
func (h *CanvasHandler) ZoomIn(w http.ResponseWriter, r *http.Request) {
	h.machine.ZoomIn()
	api.Success(w, http.StatusOK, h.stateResponse())
}

// ZoomOut handles POST /api/canvas/zoom-out
func (h *CanvasHandler) ZoomOut(w http.ResponseWriter, r *http.Request) {
	h.machine.ZoomOut()
	api.Success(w, http.StatusOK, h.stateResponse())
}

// ResetView handles POST /api/canvas/reset
func (h *CanvasHandler) ResetView(w http.ResponseWriter, r *http.Request) {
	h.machine.ResetView()
	api.Success(w, http.StatusOK, h.stateResponse())
}

// GetMinimap handles GET /api/canvas/minimap and returns every node
// projected into the preview rectangle
func (h *CanvasHandler) GetMinimap(w http.ResponseWriter, r *http.Request) {
	snapshot := h.store.Snapshot()

	dots := make([]api.MinimapDot, 0, len(snapshot.Nodes))
	for _, n := range snapshot.Nodes {
		p := h.minimap.Project(canvas.Point{X: n.X, Y: n.Y})
		dots = append(dots, api.MinimapDot{NodeID: n.ID, X: p.X, Y: p.Y})
	}
	api.Success(w, http.StatusOK, api.MinimapResponse{
		Width:  h.minimap.Width,
		Height: h.minimap.Height,
		Dots:   dots,
	})
}

func (h *CanvasHandler) stateResponse() api.CanvasStateResponse {
	tr := h.machine.Transform()
	return api.CanvasStateResponse{
		State:         string(h.machine.State()),
		X:             tr.X,
		Y:             tr.Y,
		Scale:         tr.Scale,
		ConnectSource: h.machine.ConnectSource(),
	}
}
