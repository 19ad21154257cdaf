package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ishaan-vashist/cosmic-event/internal/adapter/httpapi"
	"github.com/ishaan-vashist/cosmic-event/internal/adapter/neows"
	"github.com/ishaan-vashist/cosmic-event/internal/adapter/postgres"
	"github.com/ishaan-vashist/cosmic-event/internal/adapter/sessions"
	"github.com/ishaan-vashist/cosmic-event/internal/observability"
	"github.com/ishaan-vashist/cosmic-event/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the feed API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger := observability.NewLogger(cfg.App.LogLevel, cfg.App.LogFormat)
		metrics := observability.NewMetrics()

		db, err := postgres.Open(cfg.Postgres)
		if err != nil {
			return err
		}
		if err := postgres.Migrate(db); err != nil {
			return err
		}
		favorites := postgres.NewFavoriteStore(db)

		rdb := sessions.NewRedisClient(cfg.Redis)
		sessionStore := sessions.New(rdb, cfg.Auth.SessionTTL)

		client := neows.NewClient(cfg.NeoWs.BaseURL, cfg.NeoWs.APIKey, cfg.NeoWs.Timeout, logger, metrics)
		svc := service.New(client, favorites, logger, metrics, cfg.Feed.MaxRangeDays)

		// Response cache (feature-flagged via cache.disabled).
		var api httpapi.NEOService = svc
		if cfg.Cache.Disabled {
			logger.Info("response cache disabled")
		} else {
			api = service.NewCached(svc, cfg.Cache.TTL, nil)
			logger.Info("response cache enabled", "ttl", cfg.Cache.TTL)
		}

		srv := httpapi.NewServer(cfg.Server, api, sessionStore, logger)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// Start HTTP server.
		go func() {
			if err := srv.Start(); err != nil {
				logger.Error("http server error", "error", err)
			}
		}()

		// Warm the default window so readiness flips without waiting for the
		// first client request.
		go func() {
			if _, err := api.Feed(ctx, service.FeedQuery{}); err != nil {
				logger.Warn("warmup fetch failed", "error", err)
			}
		}()

		<-ctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
		if err := rdb.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.Error("postgres close error", "error", err)
			}
		}

		logger.Info("shutdown complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
