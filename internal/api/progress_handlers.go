package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/learnpath/internal/models"
	"github.com/terra-clan/learnpath/internal/progress"
)

// Progress handlers (optional user; logged out yields empty progress)

type progressResponse struct {
	models.ProgressOverview
	Stale bool `json:"stale,omitempty"`
}

func overviewResponse(snap *progress.Snapshot) progressResponse {
	return progressResponse{ProgressOverview: snap.Overview(), Stale: snap.Stale}
}

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	snap, err := s.tracker.FetchProgress(r.Context(), UserFromContext(r.Context()))
	if err != nil {
		respondServiceError(w, err, "load progress")
		return
	}
	respondJSON(w, http.StatusOK, overviewResponse(snap))
}

func (s *Server) handleGetRoadmapProgress(w http.ResponseWriter, r *http.Request) {
	roadmapID := chi.URLParam(r, "id")
	if _, err := s.catalog.Roadmap(roadmapID); err != nil {
		respondServiceError(w, err, "load roadmap progress")
		return
	}

	snap, err := s.tracker.Current(r.Context(), UserFromContext(r.Context()))
	if err != nil {
		respondServiceError(w, err, "load roadmap progress")
		return
	}
	respondJSON(w, http.StatusOK, snap.Summary(roadmapID))
}

func (s *Server) handleEnroll(w http.ResponseWriter, r *http.Request) {
	var req models.EnrollRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.RoadmapID = strings.TrimSpace(req.RoadmapID)
	if req.RoadmapID == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "roadmap_id is required")
		return
	}
	if _, err := s.catalog.Roadmap(req.RoadmapID); err != nil {
		respondServiceError(w, err, "enroll")
		return
	}

	snap, err := s.tracker.EnrollInRoadmap(r.Context(), UserFromContext(r.Context()), req.RoadmapID)
	if s.metrics != nil {
		s.metrics.Enrollments.WithLabelValues(resultLabel(err)).Inc()
	}
	if err != nil {
		respondServiceError(w, err, "enroll in roadmap")
		return
	}

	respondJSON(w, http.StatusCreated, overviewResponse(snap))
}

func (s *Server) handleUpdateProgress(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProgressRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.RoadmapID = strings.TrimSpace(req.RoadmapID)
	if req.RoadmapID == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "roadmap_id is required")
		return
	}
	if _, err := s.catalog.Roadmap(req.RoadmapID); err != nil {
		respondServiceError(w, err, "update progress")
		return
	}
	if req.TopicID != nil && *req.TopicID == "" {
		req.TopicID = nil
	}

	snap, err := s.tracker.UpdateProgress(r.Context(), UserFromContext(r.Context()),
		req.RoadmapID, req.TopicID, req.Percentage, req.MinutesSpent)
	if s.metrics != nil {
		s.metrics.ProgressUpdates.WithLabelValues(resultLabel(err)).Inc()
	}
	if err != nil {
		respondServiceError(w, err, "update progress")
		return
	}

	respondJSON(w, http.StatusOK, overviewResponse(snap))
}

// resultLabel classifies a mutation outcome for metrics
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, progress.ErrDuplicateEnrollment):
		return "duplicate"
	case errors.Is(err, progress.ErrPersistenceUnavailable):
		return "unavailable"
	case errors.Is(err, progress.ErrInvalidUpdate), errors.Is(err, progress.ErrNotAuthenticated):
		return "rejected"
	default:
		return "error"
	}
}
