package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/terra-clan/learnpath/internal/admin"
	"github.com/terra-clan/learnpath/internal/auth"
	"github.com/terra-clan/learnpath/internal/catalog"
	"github.com/terra-clan/learnpath/internal/embed"
	"github.com/terra-clan/learnpath/internal/progress"
	"github.com/terra-clan/learnpath/internal/quiz"
)

// Response helpers

type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	writeError(w, status, &apiError{Code: code, Message: message})
}

func writeError(w http.ResponseWriter, status int, apiErr *apiError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: false,
		Error:   apiErr,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// respondServiceError maps domain errors to status codes. action names the
// failed operation in logs and in 500 messages.
func respondServiceError(w http.ResponseWriter, err error, action string) {
	var verr *admin.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, &apiError{Code: "validation_error", Message: verr.Message, Field: verr.Field})
	case errors.Is(err, progress.ErrInvalidUpdate):
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, quiz.ErrInvalidAnswer):
		writeError(w, http.StatusBadRequest, &apiError{Code: "validation_error", Message: err.Error(), Field: "answer"})
	case errors.Is(err, progress.ErrNotAuthenticated):
		respondError(w, http.StatusUnauthorized, "not_authenticated", "sign in required")
	case errors.Is(err, catalog.ErrRoadmapNotFound),
		errors.Is(err, catalog.ErrTopicNotFound),
		errors.Is(err, catalog.ErrResourceNotFound),
		errors.Is(err, catalog.ErrQuestionNotFound),
		errors.Is(err, embed.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "not_found", notFoundMessage(err))
	case errors.Is(err, auth.ErrUnknownProvider):
		respondError(w, http.StatusNotFound, "unknown_provider", err.Error())
	case errors.Is(err, embed.ErrNotEmbeddable):
		respondError(w, http.StatusUnprocessableEntity, "not_embeddable", "this resource cannot be embedded, open it externally")
	case errors.Is(err, progress.ErrDuplicateEnrollment):
		respondError(w, http.StatusConflict, "already_enrolled", "Already enrolled in this roadmap")
	case errors.Is(err, progress.ErrPersistenceUnavailable):
		slog.Warn("persistence unavailable", "action", action, "error", err)
		respondError(w, http.StatusServiceUnavailable, "persistence_unavailable", "progress storage is unavailable, try again later")
	default:
		slog.Error("request failed", "action", action, "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to "+action)
	}
}

func notFoundMessage(err error) string {
	for _, target := range []error{
		catalog.ErrRoadmapNotFound,
		catalog.ErrTopicNotFound,
		catalog.ErrResourceNotFound,
		catalog.ErrQuestionNotFound,
		embed.ErrSessionNotFound,
	} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return "not found"
}

// decodeJSON reads the request body into v, answering 400 on failure
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}

// Health handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	report := s.health.Report(r.Context())
	if !report.Ready {
		slog.Warn("readiness check failed", "services", report.Services)
		respondError(w, http.StatusServiceUnavailable, "not_ready", "service not ready")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ready",
		"services": report.Services,
	})
}
