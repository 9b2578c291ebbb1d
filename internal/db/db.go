// Package db opens the Postgres pool used by the warehouse loader.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/scoracle-collector/internal/config"
)

// ApplicationName identifies loader sessions in pg_stat_activity.
const ApplicationName = "scoracle-collector"

// minServerVersion is the first release with INSERT ... ON CONFLICT.
const minServerVersion = 90500

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// ServerInfo describes the connected Postgres server.
type ServerInfo struct {
	Version    string
	VersionNum int
	Database   string
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

func poolConfig(cfg *config.Config) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	if poolCfg.ConnConfig.RuntimeParams["application_name"] == "" {
		poolCfg.ConnConfig.RuntimeParams["application_name"] = ApplicationName
	}
	return poolCfg, nil
}

// Server reports the server version and current database, and fails when
// the server is too old for the warehouse upserts.
func (p *Pool) Server(ctx context.Context) (ServerInfo, error) {
	var info ServerInfo
	err := p.QueryRow(ctx,
		`SELECT current_setting('server_version'),
		        current_setting('server_version_num')::int,
		        current_database()`,
	).Scan(&info.Version, &info.VersionNum, &info.Database)
	if err != nil {
		return info, fmt.Errorf("query server info: %w", err)
	}
	if err := checkVersion(info); err != nil {
		return info, err
	}
	return info, nil
}

func checkVersion(info ServerInfo) error {
	if info.VersionNum < minServerVersion {
		return fmt.Errorf("postgres %s is not supported: ON CONFLICT needs 9.5 or later", info.Version)
	}
	return nil
}
