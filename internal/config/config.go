// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/ingest.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Defaults
// --------------------------------------------------------------------------

const (
	// DefaultLeague is the API-Sports id of the English Premier League.
	DefaultLeague = 39

	DefaultDataDir = "data"
)

// DefaultSeasons are collected when the ingest CLI runs without arguments.
var DefaultSeasons = []int{2024, 2023}

// --------------------------------------------------------------------------
// Warehouse table names
// --------------------------------------------------------------------------

const (
	TeamsTable     = "football_teams"
	TeamStatsTable = "football_team_season_stats"
)

// --------------------------------------------------------------------------
// Config struct populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Upstream API
	APIKey            string
	APIBaseURL        string
	HTTPTimeout       time.Duration
	RequestsPerMinute int // 0 disables pacing

	// Collection
	DataDir        string
	DefaultLeague  int
	CollectSeasons []int

	// Database (warehouse loader only)
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// Read API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Cache
	CacheEnabled bool
}

// Error reports settings that are missing or malformed. It is returned at
// startup so a run never begins with an unusable configuration.
type Error struct {
	Missing []string
	Invalid []string
}

func (e *Error) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid "+strings.Join(e.Invalid, ", "))
	}
	return "config: " + strings.Join(parts, "; ")
}

// Load reads configuration from environment variables with sensible defaults.
// Settings required only by some commands are checked by RequireUpstream and
// RequireDatabase.
func Load() (*Config, error) {
	seasons, err := envInts("COLLECT_SEASONS", DefaultSeasons)
	if err != nil {
		return nil, &Error{Invalid: []string{"COLLECT_SEASONS"}}
	}

	return &Config{
		APIKey:            envOr("API_KEY", ""),
		APIBaseURL:        strings.TrimSuffix(envOr("API_BASE_URL", ""), "/"),
		HTTPTimeout:       time.Duration(envInt("HTTP_TIMEOUT_SECONDS", 30)) * time.Second,
		RequestsPerMinute: envInt("API_REQUESTS_PER_MINUTE", 0),

		DataDir:        filepath.Clean(envOr("DATA_DIR", DefaultDataDir)),
		DefaultLeague:  envInt("DEFAULT_LEAGUE", DefaultLeague),
		CollectSeasons: seasons,

		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 1),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 4),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		CacheEnabled: envBool("CACHE_ENABLED", true),
	}, nil
}

// RequireUpstream verifies the settings needed to call the sports-data API.
func (c *Config) RequireUpstream() error {
	var e Error
	if c.APIKey == "" {
		e.Missing = append(e.Missing, "API_KEY")
	}
	if c.APIBaseURL == "" {
		e.Missing = append(e.Missing, "API_BASE_URL")
	}
	if c.HTTPTimeout <= 0 {
		e.Invalid = append(e.Invalid, "HTTP_TIMEOUT_SECONDS")
	}
	if c.RequestsPerMinute < 0 {
		e.Invalid = append(e.Invalid, "API_REQUESTS_PER_MINUTE")
	}
	if len(e.Missing) > 0 || len(e.Invalid) > 0 {
		return &e
	}
	return nil
}

// RequireDatabase verifies the settings needed by the warehouse loader.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return &Error{Missing: []string{"DATABASE_URL"}}
	}
	return nil
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

func envInts(key string, fallback []int) ([]int, error) {
	raw := envList(key, nil)
	if raw == nil {
		return append([]int(nil), fallback...), nil
	}
	result := make([]int, 0, len(raw))
	for _, s := range raw {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		result = append(result, n)
	}
	return result, nil
}
