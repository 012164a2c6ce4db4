// Package handlers provides the HTTP handlers for the trip board API.
package handlers

import (
	"net/http"

	"tripboard-backend/pkg/api"
	appErrors "tripboard-backend/pkg/errors"

	"go.uber.org/zap"
)

// handleServiceError converts service errors to appropriate HTTP responses
func handleServiceError(logger *zap.Logger, w http.ResponseWriter, err error) {
	switch {
	case appErrors.IsValidation(err):
		logger.Debug("validation error", zap.Error(err))
		api.Error(w, http.StatusBadRequest, err.Error())
	case appErrors.IsNotFound(err):
		logger.Debug("not found", zap.Error(err))
		api.Error(w, http.StatusNotFound, err.Error())
	case appErrors.IsUnavailable(err):
		logger.Warn("dependency unavailable", zap.Error(err))
		api.Error(w, http.StatusServiceUnavailable, "Service temporarily unavailable")
	default:
		logger.Error("internal error", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "An internal error occurred")
	}
}
