package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/terra-clan/learnpath/internal/cache"
	"github.com/terra-clan/learnpath/internal/config"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Progress snapshot cache tools",
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete every cached progress snapshot from Redis",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Cache.Driver != config.CacheRedis {
			return fmt.Errorf("cache purge needs CACHE_DRIVER=%s, got %q", config.CacheRedis, cfg.Cache.Driver)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		rc, err := cache.NewRedis(ctx, cache.RedisConfig{
			Address:  cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Cache.TTL,
		})
		if err != nil {
			return err
		}
		defer rc.Close()

		removed, err := rc.Purge(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "purged %d snapshots\n", removed)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cachePurgeCmd)
}
