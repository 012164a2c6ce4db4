// Package api defines the contracts for API requests and responses.
// It decouples the API structure from the internal domain models.
package api

import (
	"encoding/json"
	"net/http"
)

// CreateNodeRequest is the expected body for a POST /api/nodes request.
// When viewport dimensions are given, the node is placed at the center of
// the current viewport instead of at x/y.
type CreateNodeRequest struct {
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	ViewportWidth  float64 `json:"viewport_width,omitempty"`
	ViewportHeight float64 `json:"viewport_height,omitempty"`
	Type           string  `json:"type"`
	Title          string  `json:"title" validate:"required"`
	Content        string  `json:"content"`
	Date           string  `json:"date"`
	Cost           string  `json:"cost"`
	Weather        int     `json:"weather"`
}

// UpdateNodeRequest is the expected body for a PATCH /api/nodes/{nodeId}
// request. Absent fields leave the node untouched.
type UpdateNodeRequest struct {
	X       *float64 `json:"x,omitempty"`
	Y       *float64 `json:"y,omitempty"`
	Type    *string  `json:"type,omitempty"`
	Title   *string  `json:"title,omitempty"`
	Content *string  `json:"content,omitempty"`
	Date    *string  `json:"date,omitempty"`
	Cost    *string  `json:"cost,omitempty"`
	Weather *int     `json:"weather,omitempty"`
	Image   *string  `json:"image,omitempty"`
}

// CreateConnectionRequest is the expected body for POST /api/connections
type CreateConnectionRequest struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
}

// CanvasEventRequest carries one pointer or wheel event into the
// interaction machine
type CanvasEventRequest struct {
	Kind         string  `json:"kind" validate:"required,oneof=pointerdown pointermove pointerup pointerleave wheel"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Target       string  `json:"target"`
	NodeID       string  `json:"node_id"`
	PanModifier  bool    `json:"pan_modifier"`
	ZoomModifier bool    `json:"zoom_modifier"`
	DeltaX       float64 `json:"delta_x"`
	DeltaY       float64 `json:"delta_y"`
}

// CanvasStateResponse reports the viewport and gesture state
type CanvasStateResponse struct {
	State         string  `json:"state"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Scale         float64 `json:"scale"`
	ConnectSource string  `json:"connect_source,omitempty"`
}

// MinimapDot is one node projected into the minimap preview
type MinimapDot struct {
	NodeID string  `json:"node_id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// MinimapResponse is the preview rectangle with all node dots
type MinimapResponse struct {
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
	Dots   []MinimapDot `json:"dots"`
}

// UpdateSettingsRequest is the expected body for PUT /api/settings/ai
type UpdateSettingsRequest struct {
	APIKey  string `json:"api_key" validate:"required"`
	Model   string `json:"model" validate:"required"`
	BaseURL string `json:"base_url" validate:"required,url"`
}

// SettingsResponse reports the AI config without leaking the key
type SettingsResponse struct {
	Configured bool   `json:"configured"`
	Model      string `json:"model"`
	BaseURL    string `json:"base_url"`
}

// AnalysisResponse carries the trip analysis text
type AnalysisResponse struct {
	Analysis string `json:"analysis"`
}

// PendingResponse lists node ids with AI work in flight
type PendingResponse struct {
	Pending []string `json:"pending"`
}

// ErrorResponse is a standardized error message for API responses
type ErrorResponse struct {
	Error string `json:"error"`
}

// Success writes a JSON response with the given status code
func Success(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Error writes a standardized JSON error response
func Error(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
