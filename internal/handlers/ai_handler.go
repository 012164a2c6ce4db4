package handlers

import (
	"net/http"

	"tripboard-backend/internal/service/ai"
	"tripboard-backend/pkg/api"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AIHandler exposes the generative features
type AIHandler struct {
	orchestrator *ai.Orchestrator
	logger       *zap.Logger
}

// NewAIHandler creates an AI handler
func NewAIHandler(o *ai.Orchestrator, logger *zap.Logger) *AIHandler {
	return &AIHandler{orchestrator: o, logger: logger}
}

// ExpandNode handles POST /api/nodes/{nodeId}/expand. Generation runs in
// the background; 202 means the request was accepted, not that it will
// produce steps.
func (h *AIHandler) ExpandNode(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeId")
	if !h.orchestrator.ExpandNode(nodeID) {
		api.Error(w, http.StatusConflict, "Node is missing, empty, or already expanding")
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// SuggestNextStop handles POST /api/nodes/{nodeId}/suggest and returns
// the placeholder node immediately
func (h *AIHandler) SuggestNextStop(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeId")
	placeholder, ok := h.orchestrator.SuggestNextStop(nodeID)
	if !ok {
		api.Error(w, http.StatusConflict, "Node is missing or not a location/stay")
		return
	}
	api.Success(w, http.StatusAccepted, placeholder)
}

// AnalyzeTrip handles POST /api/trip/analysis. Always answers 200; setup
// and failure conditions come back as message text.
func (h *AIHandler) AnalyzeTrip(w http.ResponseWriter, r *http.Request) {
	analysis := h.orchestrator.AnalyzeTrip(r.Context())
	api.Success(w, http.StatusOK, api.AnalysisResponse{Analysis: analysis})
}

// GetPending handles GET /api/ai/pending
func (h *AIHandler) GetPending(w http.ResponseWriter, r *http.Request) {
	pending := h.orchestrator.Pending()
	if pending == nil {
		pending = []string{}
	}
	api.Success(w, http.StatusOK, api.PendingResponse{Pending: pending})
}
