// Command api serves the collected season files over HTTP.
//
// Usage:
//
//	scoracle-api
//	API_PORT=8080 DATA_DIR=/srv/data scoracle-api
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/albapepper/scoracle-collector/internal/api"
	"github.com/albapepper/scoracle-collector/internal/cache"
	"github.com/albapepper/scoracle-collector/internal/config"
	"github.com/albapepper/scoracle-collector/internal/maintenance"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	appCache := cache.New(cfg.CacheEnabled)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	targets := maintenance.Targets{DataDir: cfg.DataDir, Cache: appCache}
	var limiter *api.RateLimiter
	if cfg.RateLimitEnabled {
		limiter = api.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
		targets.Limiter = limiter
	}

	// Temp file sweep, cache refresh and purge
	go maintenance.Start(ctx, targets, maintenance.DefaultConfig(), logger)

	router := api.NewRouter(appCache, limiter, cfg, logger)

	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting Scoracle Collector API",
			"addr", addr,
			"environment", cfg.Environment,
			"data_dir", cfg.DataDir,
			"default_league", cfg.DefaultLeague)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
