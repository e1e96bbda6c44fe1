package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/terra-clan/learnpath/internal/auth"
	"github.com/terra-clan/learnpath/internal/cache"
	"github.com/terra-clan/learnpath/internal/config"
	"github.com/terra-clan/learnpath/internal/embed"
	"github.com/terra-clan/learnpath/internal/progress"
	"github.com/terra-clan/learnpath/internal/storage"
)

// snapshotCache is a progress cache with a health check
type snapshotCache interface {
	progress.Cache
	HealthCheck(ctx context.Context) error
}

// openRepository connects the configured persistence collaborator
func openRepository(ctx context.Context, cfg *config.Config) (storage.Repository, error) {
	var repo storage.Repository

	switch cfg.Store.Driver {
	case config.StorePostgres:
		pg, err := openPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := storage.RunMigrations(ctx, pg.Pool(), migrationsFS(cfg)); err != nil {
				pg.Close()
				return nil, fmt.Errorf("failed to run migrations: %w", err)
			}
		}
		repo = pg

	case config.StoreSupabase:
		sb, err := storage.NewSupabaseRepository(storage.SupabaseConfig{
			URL: cfg.Supabase.URL,
			Key: cfg.Supabase.ServiceRoleKey,
		})
		if err != nil {
			return nil, err
		}
		repo = sb

	default:
		slog.Warn("using in-memory store, progress is lost on restart")
		repo = storage.NewMemoryRepository(auth.StaticClients(cfg.Auth.AdminAPIKeys)...)
	}

	if cfg.Store.Driver != config.StoreMemory && len(cfg.Auth.AdminAPIKeys) > 0 {
		slog.Warn("ADMIN_API_KEYS is only used by the memory store, admin keys are read from api_clients")
	}

	if cfg.Store.BreakerEnabled {
		repo = storage.NewBreakerRepository(repo, storage.DefaultBreakerConfig())
	}

	slog.Info("progress store ready", "driver", cfg.Store.Driver, "breaker", cfg.Store.BreakerEnabled)
	return repo, nil
}

func openPostgres(ctx context.Context, cfg *config.Config) (*storage.PostgresRepository, error) {
	return storage.NewPostgresRepository(ctx, storage.PostgresConfig{
		DSN:          cfg.Database.DSN,
		MaxOpenConns: int32(cfg.Database.MaxConns),
		MaxIdleConns: int32(cfg.Database.MaxConns / 5),
	})
}

// migrationsFS prefers MIGRATIONS_DIR over the bundled migrations
func migrationsFS(cfg *config.Config) fs.FS {
	if cfg.Database.MigrationsDir != "" {
		return os.DirFS(cfg.Database.MigrationsDir)
	}
	return storage.Migrations()
}

// openCache connects the configured snapshot cache
func openCache(ctx context.Context, cfg *config.Config) (snapshotCache, func() error, error) {
	if cfg.Cache.Driver == config.CacheRedis {
		rc, err := cache.NewRedis(ctx, cache.RedisConfig{
			Address:  cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Cache.TTL,
		})
		if err != nil {
			return nil, nil, err
		}
		return rc, rc.Close, nil
	}
	return cache.NewMemory(cfg.Cache.TTL), func() error { return nil }, nil
}

// newIdentity picks local JWT verification when the project secret is
// configured and falls back to asking the auth server
func newIdentity(cfg *config.Config) (auth.Identifier, error) {
	switch {
	case cfg.Supabase.JWTSecret != "":
		return auth.NewJWTVerifier(cfg.Supabase.JWTSecret, cfg.Auth.JWTAudience)
	case cfg.Supabase.URL != "" && cfg.Supabase.AnonKey != "":
		return auth.NewGoTrueIdentifier(cfg.Supabase.URL, cfg.Supabase.AnonKey)
	default:
		slog.Warn("no identity provider configured, every request is logged out")
		return nil, nil
	}
}

// newAdvisor builds the embedding advisor from the file, env or default allow-list
func newAdvisor(cfg *config.Config) (*embed.Advisor, error) {
	domains := cfg.Embed.AllowList
	if cfg.Embed.AllowListFile != "" {
		fromFile, err := embed.LoadAllowList(cfg.Embed.AllowListFile)
		if err != nil {
			return nil, err
		}
		domains = append(domains, fromFile...)
	}

	advisor := embed.NewAdvisor(domains)
	slog.Info("embed allow-list loaded", "domains", len(advisor.Domains()))
	return advisor, nil
}
