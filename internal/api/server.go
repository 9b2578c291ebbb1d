package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"

	"github.com/albapepper/scoracle-collector/internal/api/handler"
	"github.com/albapepper/scoracle-collector/internal/cache"
	"github.com/albapepper/scoracle-collector/internal/config"
	"github.com/albapepper/scoracle-collector/internal/table"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
// A nil limiter disables rate limiting.
func NewRouter(appCache *cache.Cache, limiter *RateLimiter, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if limiter != nil {
		r.Use(limiter.Handler)
	}

	h := handler.New(table.Layout{Dir: cfg.DataDir}, appCache, cfg.DefaultLeague, logger)

	r.Get("/", h.Root)

	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/cache", h.HealthCheckCache)
	})

	r.Route("/api/v1/seasons", func(r chi.Router) {
		r.Get("/", h.ListSeasons)
		r.Route("/{season}", func(r chi.Router) {
			r.Get("/teams", h.GetTeams)
			r.Get("/stats", h.GetStats)
			r.Get("/stats/{teamID}", h.GetTeamStats)
		})
	})

	return r
}
