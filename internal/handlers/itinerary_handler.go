package handlers

import (
	"net/http"

	"tripboard-backend/internal/service/itinerary"
	"tripboard-backend/pkg/api"

	"go.uber.org/zap"
)

// ItineraryHandler serves the aggregate views derived from the board
type ItineraryHandler struct {
	service *itinerary.Service
	logger  *zap.Logger
}

// NewItineraryHandler creates an itinerary handler
func NewItineraryHandler(s *itinerary.Service, logger *zap.Logger) *ItineraryHandler {
	return &ItineraryHandler{service: s, logger: logger}
}

// GetSchedule handles GET /api/itinerary
func (h *ItineraryHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	api.Success(w, http.StatusOK, h.service.Schedule())
}

// GetBudget handles GET /api/budget
func (h *ItineraryHandler) GetBudget(w http.ResponseWriter, r *http.Request) {
	api.Success(w, http.StatusOK, h.service.Budget())
}

// GetLegs handles GET /api/legs
func (h *ItineraryHandler) GetLegs(w http.ResponseWriter, r *http.Request) {
	api.Success(w, http.StatusOK, h.service.Legs())
}
