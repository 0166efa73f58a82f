package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"tour-planner/internal/database"
	"tour-planner/internal/genetic"
	"tour-planner/internal/routing"
)

// maxBodyBytes bounds request bodies; point lists are the largest payloads
const maxBodyBytes = 8 << 20

// Handler provides common handler utilities and dependencies
type Handler struct {
	DB      database.DataStore
	Planner routing.Planner
	// Defaults is the configuration solve requests override field by field
	Defaults genetic.Config
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response
func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string, details interface{}) {
	h.writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// decodeJSON reads a size-limited JSON body into v
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// handleNotFound handles 404 errors
func (h *Handler) handleNotFound(w http.ResponseWriter, message string) {
	h.writeError(w, http.StatusNotFound, "NOT_FOUND", message, nil)
}

// handleValidationError handles 400 errors
func (h *Handler) handleValidationError(w http.ResponseWriter, message string) {
	h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", message, nil)
}

// handleConfigError handles 422 errors for solver parameters out of range
func (h *Handler) handleConfigError(w http.ResponseWriter, err error) {
	var cfgErr *genetic.ConfigError
	if errors.As(err, &cfgErr) {
		h.writeError(w, http.StatusUnprocessableEntity, "INVALID_CONFIGURATION", cfgErr.Error(), map[string]interface{}{
			"field":  cfgErr.Field,
			"reason": cfgErr.Reason,
		})
		return
	}
	h.writeError(w, http.StatusUnprocessableEntity, "INVALID_CONFIGURATION", err.Error(), nil)
}

// handleInternalError handles 500 errors
func (h *Handler) handleInternalError(w http.ResponseWriter, err error) {
	log.Printf("[ERROR] Internal error: %v", err)
	h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An error occurred. Please try again.", nil)
}

// checkNotFound checks if an error is a not found error
func (h *Handler) checkNotFound(err error) bool {
	return errors.Is(err, database.ErrNotFound)
}

// HandleHealth handles GET /api/v1/health
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.DB.HealthCheck(r.Context()); err != nil {
		log.Printf("[ERROR] Health check failed: err=%v", err)
		h.writeError(w, http.StatusServiceUnavailable, "UNHEALTHY", "Database unavailable", nil)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
