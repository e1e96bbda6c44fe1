package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/terra-clan/learnpath/internal/config"
	"github.com/terra-clan/learnpath/internal/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending SQL migrations to the Postgres store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Database.DSN == "" {
			return fmt.Errorf("DATABASE_DSN is required (store driver %q)", cfg.Store.Driver)
		}
		if cfg.Store.Driver != config.StorePostgres {
			fmt.Fprintf(cmd.ErrOrStderr(), "note: STORE_DRIVER is %q, migrating %s anyway\n", cfg.Store.Driver, "DATABASE_DSN")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		pg, err := openPostgres(ctx, cfg)
		if err != nil {
			return err
		}
		defer pg.Close()

		if err := storage.RunMigrations(ctx, pg.Pool(), migrationsFS(cfg)); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		return nil
	},
}
