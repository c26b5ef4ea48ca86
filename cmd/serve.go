package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"resolver/internal/api"
	"resolver/internal/config"
	"resolver/pkg/logger"
	"resolver/pkg/storage"
	"resolver/pkg/storage/rediscache"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// withCache wraps strg in the redis item cache when it is enabled. Closing the
// returned storage also closes strg.
func withCache(ctx context.Context, cfg *config.Config, strg storage.Storage) storage.Storage {
	if !cfg.Redis.Enabled {
		return strg
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn(ctx, "redis is not reachable, items are served from postgres until it is",
			zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}

	return rediscache.New(client, strg, rediscache.Options{
		KeyPrefix:   cfg.Redis.KeyPrefix,
		TTL:         cfg.Redis.ItemTTL,
		NotFoundTTL: cfg.Redis.NotFoundTTL,
	})
}

func setupServer(ctx context.Context, deps api.Deps, cfg *config.Config) func(ctx context.Context) {
	server, err := api.NewServer(deps, api.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create webserver", zap.Error(err))
	}

	go func() {
		logger.Info(ctx, "starting webserver...", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
	}
}

func serveCommand(cfg *config.Config, log *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts the API server",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			pgsql, _ := getPostgres(ctx, cfg)
			strg := withCache(ctx, cfg, pgsql)
			defer func() {
				logger.Info(ctx, "closing storage...")
				if err := strg.Close(); err != nil {
					logger.Warn(ctx, "could not close storage", zap.Error(err))
				}
			}()

			stopWebserver := setupServer(ctx, api.Deps{
				Storage: strg,
				Log:     log,
			}, cfg)

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stopWebserver(shutdownCtx)
		},
	}

	return cmd
}
