package main

import (
	"context"
	root "resolver"
	"resolver/internal/config"
	"resolver/pkg/logger"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCommand constructs the 'migrate' subcommand that applies database
// migrations to the latest version using goose.
func migrateCommand(cfg *config.Config) *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrates database to the latest version",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			goose.SetBaseFS(root.Migrations)
			if err := goose.SetDialect("postgres"); err != nil {
				logger.Fatal(ctx, "could not set goose dialect to postgres", zap.Error(err))
			}

			if down {
				if err := goose.DownContext(ctx, strg.DB, "migrations"); err != nil {
					logger.Fatal(ctx, "could not roll back pgsql migration", zap.Error(err))
				}

				return
			}
			if err := goose.UpContext(ctx, strg.DB, "migrations"); err != nil {
				logger.Fatal(ctx, "could not migrate pgsql", zap.Error(err))
			}

			version, err := goose.GetDBVersionContext(ctx, strg.DB)
			if err != nil {
				logger.Warn(ctx, "could not read migration version", zap.Error(err))

				return
			}
			logger.Info(ctx, "database migrated", zap.Int64("version", version))
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "Roll back the most recent migration")

	return cmd
}
