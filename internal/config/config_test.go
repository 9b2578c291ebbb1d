package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"API_KEY", "API_BASE_URL", "HTTP_TIMEOUT_SECONDS", "API_REQUESTS_PER_MINUTE",
		"DATA_DIR", "DEFAULT_LEAGUE", "COLLECT_SEASONS", "DATABASE_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, DefaultLeague, cfg.DefaultLeague)
	require.Equal(t, []int{2024, 2023}, cfg.CollectSeasons)
	require.Equal(t, "data", cfg.DataDir)
	require.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	require.Zero(t, cfg.RequestsPerMinute)
}

func TestLoadReadsEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "secret")
	t.Setenv("API_BASE_URL", "https://example.test/v3/")
	t.Setenv("COLLECT_SEASONS", "2022, 2021")
	t.Setenv("DEFAULT_LEAGUE", "140")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "5")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://example.test/v3", cfg.APIBaseURL)
	require.Equal(t, []int{2022, 2021}, cfg.CollectSeasons)
	require.Equal(t, 140, cfg.DefaultLeague)
	require.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	require.NoError(t, cfg.RequireUpstream())
}

func TestLoadRejectsBadSeasons(t *testing.T) {
	clearEnv(t)
	t.Setenv("COLLECT_SEASONS", "2024,next")

	_, err := Load()
	var cfgErr *Error
	require.True(t, errors.As(err, &cfgErr))
	require.Equal(t, []string{"COLLECT_SEASONS"}, cfgErr.Invalid)
}

func TestRequireUpstreamListsMissingKeys(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	err = cfg.RequireUpstream()
	var cfgErr *Error
	require.True(t, errors.As(err, &cfgErr))
	require.Equal(t, []string{"API_KEY", "API_BASE_URL"}, cfgErr.Missing)
	require.Contains(t, err.Error(), "API_KEY")
}

func TestRequireDatabase(t *testing.T) {
	cfg := &Config{}
	require.Error(t, cfg.RequireDatabase())

	cfg.DatabaseURL = "postgres://localhost/stats"
	require.NoError(t, cfg.RequireDatabase())
}
