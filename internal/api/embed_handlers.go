package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/learnpath/internal/embed"
	"github.com/terra-clan/learnpath/internal/models"
)

// Embed handlers: embeddability advice and in-app viewer sessions

func (s *Server) handleEmbedCheck(w http.ResponseWriter, r *http.Request) {
	var req models.EmbedCheckRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.URL) == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "url is required")
		return
	}

	respondJSON(w, http.StatusOK, s.advise(req.URL))
}

func (s *Server) handleResourceEmbed(w http.ResponseWriter, r *http.Request) {
	resource, err := s.catalog.Resource(chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err, "check resource")
		return
	}
	respondJSON(w, http.StatusOK, s.advise(resource.URL))
}

func (s *Server) advise(rawURL string) models.EmbedAdvice {
	advice := s.advisor.Advise(rawURL)
	if s.metrics != nil {
		s.metrics.EmbedChecks.WithLabelValues(string(advice.Mode)).Inc()
	}
	return advice
}

func (s *Server) handleOpenViewer(w http.ResponseWriter, r *http.Request) {
	var req models.OpenViewerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	target := strings.TrimSpace(req.URL)
	if req.ResourceID != "" {
		resource, err := s.catalog.Resource(req.ResourceID)
		if err != nil {
			respondServiceError(w, err, "open viewer")
			return
		}
		target = resource.URL
	}
	if target == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "resource_id or url is required")
		return
	}

	session, err := s.viewers.Open(req.ResourceID, target)
	if err != nil {
		respondServiceError(w, err, "open viewer")
		return
	}

	s.countViewerEvent("open")
	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleGetViewer(w http.ResponseWriter, r *http.Request) {
	session, err := s.viewers.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err, "get viewer session")
		return
	}
	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleViewerLoaded(w http.ResponseWriter, r *http.Request) {
	session, err := s.viewers.Loaded(chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err, "record viewer load")
		return
	}

	s.countViewerEvent("loaded")
	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleViewerError(w http.ResponseWriter, r *http.Request) {
	var req models.ViewerErrorRequest
	// An empty body is a plain load error
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Reason == "" {
		req.Reason = embed.ReasonLoadError
	}

	session, err := s.viewers.Fail(chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		respondServiceError(w, err, "record viewer error")
		return
	}

	s.countViewerEvent("error")
	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleViewerRetry(w http.ResponseWriter, r *http.Request) {
	session, err := s.viewers.Retry(chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err, "retry viewer")
		return
	}

	s.countViewerEvent("retry")
	respondJSON(w, http.StatusOK, session)
}

func (s *Server) countViewerEvent(event string) {
	if s.metrics != nil {
		s.metrics.ViewerEvents.WithLabelValues(event).Inc()
	}
}
