package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/learnpath/internal/admin"
	"github.com/terra-clan/learnpath/internal/models"
	"github.com/terra-clan/learnpath/internal/query"
)

// Admin handlers (API key auth)

type saveResponse struct {
	Roadmap       *models.Roadmap `json:"roadmap"`
	StepCount     int             `json:"steps"`
	ResourceCount int             `json:"resources"`
}

func (s *Server) handleAdminOverview(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"stats":           s.catalog.Stats(),
		"categories":      s.catalog.RoadmapCategories(),
		"viewer_sessions": s.viewers.Len(),
	})
}

func (s *Server) handleAdminListRoadmaps(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sel := query.Selection{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Status:   q.Get("status"),
	}

	roadmaps := query.Apply(s.catalog.Roadmaps(), sel)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"roadmaps": roadmaps,
		"total":    len(roadmaps),
	})
}

func (s *Server) handleAdminCreateRoadmap(w http.ResponseWriter, r *http.Request) {
	var form models.RoadmapForm
	if !decodeJSON(w, r, &form) {
		return
	}

	editor := admin.NewEditor(nil)
	if err := editor.ApplyForm(form); err != nil {
		respondServiceError(w, err, "create roadmap")
		return
	}

	result, err := editor.Save()
	if err != nil {
		respondServiceError(w, err, "create roadmap")
		return
	}

	roadmap := s.catalog.CreateRoadmap(result.Patch)
	slog.Info("admin created roadmap", "id", roadmap.ID, "client", clientName(r))

	respondJSON(w, http.StatusCreated, saveResponse{
		Roadmap:       roadmap,
		StepCount:     result.StepCount,
		ResourceCount: result.ResourceCount,
	})
}

func (s *Server) handleAdminUpdateRoadmap(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := s.catalog.Roadmap(id)
	if err != nil {
		respondServiceError(w, err, "update roadmap")
		return
	}

	var form models.RoadmapForm
	if !decodeJSON(w, r, &form) {
		return
	}

	editor := admin.NewEditor(existing)
	if err := editor.ApplyForm(form); err != nil {
		respondServiceError(w, err, "update roadmap")
		return
	}

	result, err := editor.Save()
	if err != nil {
		respondServiceError(w, err, "update roadmap")
		return
	}

	roadmap := existing
	if !result.Patch.IsEmpty() {
		roadmap, err = s.catalog.UpdateRoadmap(id, result.Patch)
		if err != nil {
			respondServiceError(w, err, "update roadmap")
			return
		}
		slog.Info("admin updated roadmap", "id", id, "client", clientName(r))
	}

	respondJSON(w, http.StatusOK, saveResponse{
		Roadmap:       roadmap,
		StepCount:     result.StepCount,
		ResourceCount: result.ResourceCount,
	})
}

func (s *Server) handleAdminTogglePublish(w http.ResponseWriter, r *http.Request) {
	roadmap, err := s.catalog.TogglePublish(chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err, "toggle publish")
		return
	}
	respondJSON(w, http.StatusOK, roadmap)
}

func (s *Server) handleAdminDeleteRoadmap(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.catalog.DeleteRoadmap(id); err != nil {
		respondServiceError(w, err, "delete roadmap")
		return
	}

	slog.Info("admin deleted roadmap", "id", id, "client", clientName(r))
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "roadmap deleted",
	})
}

func clientName(r *http.Request) string {
	if client := ClientFromContext(r.Context()); client != nil {
		return client.Name
	}
	return ""
}
