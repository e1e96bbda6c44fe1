package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/terra-clan/learnpath/internal/auth"
	"github.com/terra-clan/learnpath/internal/catalog"
	"github.com/terra-clan/learnpath/internal/config"
	"github.com/terra-clan/learnpath/internal/embed"
	"github.com/terra-clan/learnpath/internal/health"
	"github.com/terra-clan/learnpath/internal/observability"
	"github.com/terra-clan/learnpath/internal/progress"
	"github.com/terra-clan/learnpath/internal/storage"
)

// Deps are the collaborators served by the API
type Deps struct {
	Catalog  *catalog.Catalog
	Tracker  *progress.Tracker
	Advisor  *embed.Advisor
	Viewers  *embed.Sessions
	Repo     storage.Repository
	Identity auth.Identifier
	SignIn   *auth.SignInURLBuilder
	Health   *health.Registry
	Metrics  *observability.Collector
	Hub      *Hub
}

// Server represents the HTTP API server
type Server struct {
	config         config.ServerConfig
	router         *chi.Mux
	catalog        *catalog.Catalog
	tracker        *progress.Tracker
	advisor        *embed.Advisor
	viewers        *embed.Sessions
	identity       auth.Identifier
	signIn         *auth.SignInURLBuilder
	health         *health.Registry
	metrics        *observability.Collector
	hub            *Hub
	authMiddleware *AuthMiddleware
	userMiddleware *UserMiddleware
}

// NewServer creates a new API server
func NewServer(cfg config.ServerConfig, deps Deps) *Server {
	s := &Server{
		config:         cfg,
		catalog:        deps.Catalog,
		tracker:        deps.Tracker,
		advisor:        deps.Advisor,
		viewers:        deps.Viewers,
		identity:       deps.Identity,
		signIn:         deps.SignIn,
		health:         deps.Health,
		metrics:        deps.Metrics,
		hub:            deps.Hub,
		authMiddleware: NewAuthMiddleware(deps.Repo),
		userMiddleware: NewUserMiddleware(deps.Identity),
	}
	if s.hub == nil {
		s.hub = NewHub()
	}
	if s.health == nil {
		s.health = health.NewRegistry(5 * time.Second)
	}
	s.setupRouter()
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter configures all routes and middleware
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	timeout := s.config.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	origins := s.config.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check (outside versioned API - public)
	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	// Sign-in redirects and sign-out
	r.Route("/auth", func(r chi.Router) {
		r.Get("/{provider}/login", s.handleLogin)
		r.With(s.userMiddleware.Identify).Post("/signout", s.handleSignOut)
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Catalog browsing, embedding and viewer sessions are public
		r.Route("/roadmaps", func(r chi.Router) {
			r.Get("/", s.handleListRoadmaps)
			r.Get("/{id}", s.handleGetRoadmap)
		})

		r.Route("/topics", func(r chi.Router) {
			r.Get("/", s.handleListTopics)
			r.Get("/{id}", s.handleGetTopic)
			r.Get("/{id}/resources", s.handleListTopicResources)
		})

		r.Route("/resources", func(r chi.Router) {
			r.Get("/", s.handleListResources)
			r.Get("/{id}", s.handleGetResource)
			r.Get("/{id}/embed", s.handleResourceEmbed)
		})

		r.Route("/quiz", func(r chi.Router) {
			r.Get("/questions", s.handleListQuestions)
			r.Post("/questions/{id}/answer", s.handleAnswerQuestion)
			r.Post("/attempts", s.handleQuizAttempt)
			r.Get("/interview", s.handleListInterviewQuestions)
			r.Get("/exercises", s.handleListExercises)
			r.Get("/facets", s.handleQuizFacets)
		})

		r.Post("/embed/check", s.handleEmbedCheck)

		r.Route("/viewer/sessions", func(r chi.Router) {
			r.Post("/", s.handleOpenViewer)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetViewer)
				r.Post("/loaded", s.handleViewerLoaded)
				r.Post("/error", s.handleViewerError)
				r.Post("/retry", s.handleViewerRetry)
			})
		})

		r.Get("/preferences/theme", s.handleGetTheme)
		r.Put("/preferences/theme", s.handleSetTheme)

		// User routes resolve the optional bearer identity
		r.Group(func(r chi.Router) {
			r.Use(s.userMiddleware.Identify)

			r.Get("/me", s.handleMe)

			r.Route("/progress", func(r chi.Router) {
				r.Get("/", s.handleGetProgress)
				r.Put("/", s.handleUpdateProgress)
				r.Get("/roadmaps/{id}", s.handleGetRoadmapProgress)
				r.With(s.userMiddleware.RequireUser).Get("/stream", s.handleProgressStream)
			})

			r.Post("/enrollments", s.handleEnroll)
		})

		// Admin routes (protected by API key authentication)
		r.Route("/admin", func(r chi.Router) {
			r.Use(s.authMiddleware.Authenticate)

			r.With(s.authMiddleware.RequirePermission("roadmaps:read")).Get("/overview", s.handleAdminOverview)

			r.Route("/roadmaps", func(r chi.Router) {
				r.With(s.authMiddleware.RequirePermission("roadmaps:read")).Get("/", s.handleAdminListRoadmaps)
				r.With(s.authMiddleware.RequirePermission("roadmaps:write")).Post("/", s.handleAdminCreateRoadmap)

				r.Route("/{id}", func(r chi.Router) {
					r.With(s.authMiddleware.RequirePermission("roadmaps:write")).Put("/", s.handleAdminUpdateRoadmap)
					r.With(s.authMiddleware.RequirePermission("roadmaps:write")).Delete("/", s.handleAdminDeleteRoadmap)
					r.With(s.authMiddleware.RequirePermission("roadmaps:write")).Post("/publish", s.handleAdminTogglePublish)
				})
			})
		})
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
