package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shiva/pplme/config"
)

// NewPostgresPool creates a connection pool used only for the one-shot
// bulk load in internal/source and for the admin /health check — the
// daemon never issues a Postgres query per FindMatching request, so
// this pool is sized for a single startup burst, not sustained
// request-time concurrency:
//   - MaxConns: capped from config (bulk SELECT plus health checks,
//     not one connection per in-flight matching query)
//   - MinConns: kept warm from config
//   - Health-check period: 30 s
//   - Startup connectivity ping: bounded by 5 s
func NewPostgresPool(ctx context.Context, cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("pplme: parse postgres config for %s:%d/%s: %w", cfg.Host, cfg.Port, cfg.DBName, err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.HealthCheckPeriod = 30 * time.Second
	poolCfg.MaxConnLifetime = 1 * time.Hour
	poolCfg.MaxConnIdleTime = 15 * time.Minute

	// Create the pool.
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pplme: create postgres pool for %s:%d/%s: %w", cfg.Host, cfg.Port, cfg.DBName, err)
	}

	// Verify connectivity.
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pplme: ping postgres at %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	return pool, nil
}

// HealthCheck pings the PostgreSQL pool and returns nil if healthy.
func HealthCheck(ctx context.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return pool.Ping(pingCtx)
}
