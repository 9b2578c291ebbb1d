// Package handler provides HTTP handlers for the read API. Handlers read the
// season files written by the collector; encoded responses are cached in
// memory with ETags.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/albapepper/scoracle-collector/internal/api/respond"
	"github.com/albapepper/scoracle-collector/internal/cache"
	"github.com/albapepper/scoracle-collector/internal/table"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	layout        table.Layout
	cache         *cache.Cache
	defaultLeague int
	logger        *slog.Logger
}

// New creates a Handler with shared dependencies.
func New(layout table.Layout, c *cache.Cache, defaultLeague int, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		layout:        layout,
		cache:         c,
		defaultLeague: defaultLeague,
		logger:        logger,
	}
}

// Root serves API info at /.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"name":           "Scoracle Collector API",
		"version":        "1.0.0",
		"status":         "running",
		"default_league": h.defaultLeague,
	})
}

// HealthCheck returns basic health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// apiError is a handler failure that maps to a specific HTTP response.
type apiError struct {
	status  int
	code    string
	message string
}

func (e *apiError) Error() string { return e.code + ": " + e.message }

// serveCached answers from the cache when possible, otherwise builds the
// payload, caches its encoding and writes it.
func (h *Handler) serveCached(w http.ResponseWriter, r *http.Request, key string, ttl time.Duration, build func(ctx context.Context) (any, error)) {
	if e, ok := h.cache.Lookup(key); ok {
		respond.Cached(w, r, e, ttl, true)
		return
	}

	v, err := build(r.Context())
	if err != nil {
		var ae *apiError
		if errors.As(err, &ae) {
			respond.Error(w, ae.status, ae.code, ae.message)
			return
		}
		h.logger.Error("handler failed", "path", r.URL.Path, "error", err)
		respond.Error(w, http.StatusInternalServerError, "INTERNAL", "Failed to read season data")
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("encode response", "path", r.URL.Path, "error", err)
		respond.Error(w, http.StatusInternalServerError, "INTERNAL", "Failed to encode response")
		return
	}

	respond.Cached(w, r, h.cache.Store(key, data, ttl), ttl, false)
}
