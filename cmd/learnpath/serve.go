package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/terra-clan/learnpath/internal/api"
	"github.com/terra-clan/learnpath/internal/auth"
	"github.com/terra-clan/learnpath/internal/catalog"
	"github.com/terra-clan/learnpath/internal/cleanup"
	"github.com/terra-clan/learnpath/internal/embed"
	"github.com/terra-clan/learnpath/internal/health"
	"github.com/terra-clan/learnpath/internal/observability"
	"github.com/terra-clan/learnpath/internal/progress"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	slog.Info("starting learnpath",
		"version", version,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"store", cfg.Store.Driver,
		"cache", cfg.Cache.Driver,
	)

	// Create context for initialization
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()

	cat, err := catalog.LoadFromDir(cfg.Content.Dir)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	for _, w := range cat.Check() {
		slog.Warn("catalog check", "warning", w)
	}

	repo, err := openRepository(initCtx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open progress store: %w", err)
	}
	defer repo.Close()

	snapshots, closeCache, err := openCache(initCtx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open snapshot cache: %w", err)
	}
	defer closeCache()

	identity, err := newIdentity(cfg)
	if err != nil {
		return fmt.Errorf("failed to set up identity: %w", err)
	}

	var signIn *auth.SignInURLBuilder
	if cfg.Supabase.URL != "" {
		signIn = auth.NewSignInURLBuilder(cfg.Supabase.URL, cfg.Auth.RedirectURL)
	}

	advisor, err := newAdvisor(cfg)
	if err != nil {
		return fmt.Errorf("failed to load embed allow-list: %w", err)
	}

	collector := observability.NewCollector("learnpath")
	hub := api.NewHub()
	tracker := progress.NewTracker(repo, observability.InstrumentCache(snapshots, collector), progress.WithPublisher(hub))

	viewers := embed.NewSessions(advisor, embed.SessionsConfig{
		LoadTimeout: cfg.Embed.LoadTimeout,
		TTL:         cfg.Embed.SessionTTL,
	})

	registry := health.NewRegistry(5 * time.Second)
	registry.Register("store", health.CheckerFunc(repo.Ping))
	registry.Register("cache", snapshots)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cleaner := cleanup.NewCleaner(viewers, cfg.Cleanup.Interval, func(removed int) {
		collector.ViewersSwept.Add(float64(removed))
	})
	cleaner.Start(ctx)

	server := api.NewServer(cfg.Server, api.Deps{
		Catalog:  cat,
		Tracker:  tracker,
		Advisor:  advisor,
		Viewers:  viewers,
		Repo:     repo,
		Identity: identity,
		SignIn:   signIn,
		Health:   registry,
		Metrics:  collector,
		Hub:      hub,
	})

	httpServer := &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:     server.Router(),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serveErr:
		return fmt.Errorf("HTTP server error: %w", err)
	}

	slog.Info("shutting down gracefully...")

	// Cancel context to stop background workers
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("learnpath stopped")
	return nil
}
