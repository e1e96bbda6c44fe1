package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/learnpath/internal/auth"
	"github.com/terra-clan/learnpath/internal/models"
)

const (
	themeCookieName   = "theme"
	themeCookieMaxAge = 365 * 24 * 60 * 60
)

// Auth handlers

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.signIn == nil {
		respondError(w, http.StatusServiceUnavailable, "auth_unavailable", "sign-in is not configured")
		return
	}

	target, err := s.signIn.URL(chi.URLParam(r, "provider"))
	if err != nil {
		respondServiceError(w, err, "start sign-in")
		return
	}

	http.Redirect(w, r, target, http.StatusFound)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"authenticated": user != nil,
		"user":          user,
	})
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		respondJSON(w, http.StatusOK, map[string]string{"message": "signed out"})
		return
	}

	s.tracker.SignOut(r.Context(), user)

	if ender, ok := s.identity.(auth.SessionEnder); ok {
		if err := ender.SignOut(r.Context(), tokenFromContext(r.Context())); err != nil {
			slog.Warn("failed to revoke session", "user_id", user.ID, "error", err)
		}
	}

	slog.Info("user signed out", "user_id", user.ID)
	respondJSON(w, http.StatusOK, map[string]string{"message": "signed out"})
}

// Theme preference handlers (cookie scoped)

type themeRequest struct {
	Theme models.Theme `json:"theme"`
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	theme := models.ThemeSystem
	if c, err := r.Cookie(themeCookieName); err == nil && models.Theme(c.Value).Valid() {
		theme = models.Theme(c.Value)
	}
	respondJSON(w, http.StatusOK, themeRequest{Theme: theme})
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if !req.Theme.Valid() {
		writeError(w, http.StatusBadRequest, &apiError{
			Code:    "validation_error",
			Message: "theme must be one of light, dark, system",
			Field:   "theme",
		})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     themeCookieName,
		Value:    string(req.Theme),
		Path:     "/",
		MaxAge:   themeCookieMaxAge,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, req)
}
