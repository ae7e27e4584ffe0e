package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"auth-service/models"

	"github.com/umakantv/go-utils/httpserver"
	logger "github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// logRequest logs the request with the specified format.
// It reuses httpserver context utils for route details and structured logging.
func logRequest(ctx context.Context, level string, message string, fields ...zap.Field) {
	routeName := httpserver.GetRouteName(ctx)
	method := httpserver.GetRouteMethod(ctx)
	path := httpserver.GetRoutePath(ctx)

	// Build full message consistent with existing (timestamp - route - method - path)
	logMsg := time.Now().Format("2006-01-02 15:04:05") + " - " + routeName + " - " + method + " - " + path
	if message != "" {
		logMsg += " - " + message
	}

	allFields := append([]zap.Field{
		zap.String("route", routeName),
		zap.String("method", method),
		zap.String("path", path),
	}, fields...)

	switch level {
	case "info":
		logger.Info(logMsg, allFields...)
	case "error":
		logger.Error(logMsg, allFields...)
	case "debug":
		logger.Debug(logMsg, allFields...)
	}
}

// respondJSON writes the payload with the given status. Every response body
// in this service goes through here or respondError.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError writes the standard failure envelope {success:false, message}.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// decodeBody decodes the JSON request body into dst. A malformed body is a
// validation failure (422) and the response is written here; callers just
// return on error.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondValidationErrors(w, []models.FieldError{{Field: "body", Message: "Invalid JSON"}})
		return err
	}
	return nil
}

// respondValidationErrors writes a 422 with the per-field error list.
func respondValidationErrors(w http.ResponseWriter, errs []models.FieldError) {
	respondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
		"success": false,
		"message": "Validation failed",
		"errors":  errs,
	})
}
