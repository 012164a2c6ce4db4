package handlers

import (
	"encoding/json"
	"net/http"

	"tripboard-backend/internal/domain"
	"tripboard-backend/internal/interaction"
	"tripboard-backend/internal/store"
	"tripboard-backend/pkg/api"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// GraphHandler serves the board snapshot and node/connection mutations
type GraphHandler struct {
	store    *store.GraphStore
	machine  *interaction.Machine
	validate *validator.Validate
	logger   *zap.Logger
}

// NewGraphHandler creates a graph handler
func NewGraphHandler(s *store.GraphStore, m *interaction.Machine, validate *validator.Validate, logger *zap.Logger) *GraphHandler {
	return &GraphHandler{store: s, machine: m, validate: validate, logger: logger}
}

// GetGraph handles GET /api/graph
func (h *GraphHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	api.Success(w, http.StatusOK, h.store.Snapshot())
}

// CreateNode handles POST /api/nodes
func (h *GraphHandler) CreateNode(w http.ResponseWriter, r *http.Request) {
	var req api.CreateNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	x, y := req.X, req.Y
	if req.ViewportWidth > 0 && req.ViewportHeight > 0 {
		// place at the center of the caller's current viewport
		center := h.machine.Transform().ViewportCenter(req.ViewportWidth, req.ViewportHeight)
		x, y = center.X, center.Y
	}

	node := h.store.AddNode(domain.Node{
		X:       x,
		Y:       y,
		Type:    domain.NormalizeType(req.Type),
		Title:   req.Title,
		Content: req.Content,
		Date:    req.Date,
		Cost:    req.Cost,
		Weather: req.Weather,
	})
	api.Success(w, http.StatusCreated, node)
}

// GetNode handles GET /api/nodes/{nodeId}
func (h *GraphHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeId")
	node, ok := h.store.GetNode(nodeID)
	if !ok {
		api.Error(w, http.StatusNotFound, "Node not found")
		return
	}
	api.Success(w, http.StatusOK, node)
}

// UpdateNode handles PATCH /api/nodes/{nodeId}
func (h *GraphHandler) UpdateNode(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeId")

	var req api.UpdateNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	patch := domain.NodePatch{
		X:       req.X,
		Y:       req.Y,
		Title:   req.Title,
		Content: req.Content,
		Date:    req.Date,
		Cost:    req.Cost,
		Weather: req.Weather,
		Image:   req.Image,
	}
	if req.Type != nil {
		nodeType := domain.NormalizeType(*req.Type)
		patch.Type = &nodeType
	}

	if !h.store.UpdateNode(nodeID, patch) {
		api.Error(w, http.StatusNotFound, "Node not found")
		return
	}
	node, _ := h.store.GetNode(nodeID)
	api.Success(w, http.StatusOK, node)
}

// DeleteNode handles DELETE /api/nodes/{nodeId}. Deleting an unknown node
// is a no-op and still answers 204.
func (h *GraphHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	h.store.DeleteNode(chi.URLParam(r, "nodeId"))
	w.WriteHeader(http.StatusNoContent)
}

// DeleteNodeConnections handles DELETE /api/nodes/{nodeId}/connections,
// detaching a node without removing it
func (h *GraphHandler) DeleteNodeConnections(w http.ResponseWriter, r *http.Request) {
	h.store.DeleteConnectionsTouching(chi.URLParam(r, "nodeId"))
	w.WriteHeader(http.StatusNoContent)
}

// CreateConnection handles POST /api/connections. Duplicate pairs answer
// 200 with the existing connection; new ones answer 201.
func (h *GraphHandler) CreateConnection(w http.ResponseWriter, r *http.Request) {
	var req api.CreateConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.From == req.To {
		api.Error(w, http.StatusBadRequest, "Cannot connect a node to itself")
		return
	}
	if _, ok := h.store.GetNode(req.From); !ok {
		api.Error(w, http.StatusNotFound, "Source node not found")
		return
	}
	if _, ok := h.store.GetNode(req.To); !ok {
		api.Error(w, http.StatusNotFound, "Target node not found")
		return
	}

	conn, created := h.store.AddConnection(req.From, req.To)
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	api.Success(w, status, conn)
}
