package handlers

import (
	"encoding/json"
	"net/http"

	"tripboard-backend/internal/domain"
	"tripboard-backend/internal/settings"
	"tripboard-backend/pkg/api"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// SettingsHandler reads and writes the AI endpoint configuration
type SettingsHandler struct {
	manager  *settings.Manager
	validate *validator.Validate
	logger   *zap.Logger
}

// NewSettingsHandler creates a settings handler
func NewSettingsHandler(m *settings.Manager, validate *validator.Validate, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{manager: m, validate: validate, logger: logger}
}

// GetSettings handles GET /api/settings/ai. The API key never leaves the
// server.
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	cfg := h.manager.AIConfig()
	api.Success(w, http.StatusOK, api.SettingsResponse{
		Configured: cfg.IsConfigured(),
		Model:      cfg.Model,
		BaseURL:    cfg.BaseURL,
	})
}

// UpdateSettings handles PUT /api/settings/ai and persists immediately
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	err := h.manager.Update(r.Context(), domain.AIConfig{
		APIKey:  req.APIKey,
		Model:   req.Model,
		BaseURL: req.BaseURL,
	})
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	cfg := h.manager.AIConfig()
	api.Success(w, http.StatusOK, api.SettingsResponse{
		Configured: cfg.IsConfigured(),
		Model:      cfg.Model,
		BaseURL:    cfg.BaseURL,
	})
}
