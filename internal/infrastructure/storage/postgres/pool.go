// Package postgres provides PostgreSQL infrastructure components.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wikihost/pkg/logger"
)

// PoolConfig holds connection pool configuration.
type PoolConfig struct {
	DSN               string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
	ApplicationName   string
}

// DefaultPoolConfig returns defaults sized for the admin back office.
func DefaultPoolConfig(dsn string) PoolConfig {
	return PoolConfig{
		DSN:               dsn,
		MaxConns:          10,
		MinConns:          1,
		MaxConnLifetime:   time.Hour,
		MaxConnIdleTime:   30 * time.Minute,
		HealthCheckPeriod: time.Minute,
		ApplicationName:   "wikihost",
	}
}

// Pool wraps pgxpool.Pool.
type Pool struct {
	*pgxpool.Pool
}

// Close closes all connections in the pool.
func (p *Pool) Close() {
	if p.Pool != nil {
		p.Pool.Close()
	}
}

// NewPool creates a connection pool and verifies it with a ping.
func NewPool(ctx context.Context, cfg PoolConfig) (*Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = cfg.MinConns
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolConfig.HealthCheckPeriod = cfg.HealthCheckPeriod

	appName := cfg.ApplicationName
	if appName == "" {
		appName = "wikihost"
	}
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, "SELECT set_config('application_name', $1, false)", appName)
		return err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// PoolStats is the /admin/pool_stats payload.
type PoolStats struct {
	TotalConns              int32  `json:"totalConns"`
	AcquiredConns           int32  `json:"acquiredConns"`
	IdleConns               int32  `json:"idleConns"`
	ConstructingConns       int32  `json:"constructingConns"`
	MaxConns                int32  `json:"maxConns"`
	AcquireCount            int64  `json:"acquireCount"`
	EmptyAcquireCount       int64  `json:"emptyAcquireCount"`
	CanceledAcquireCount    int64  `json:"canceledAcquireCount"`
	AcquireDurationMillis   int64  `json:"acquireDurationMs"`
	NewConnsCount           int64  `json:"newConnsCount"`
	MaxLifetimeDestroyCount int64  `json:"maxLifetimeDestroyCount"`
	MaxIdleDestroyCount     int64  `json:"maxIdleDestroyCount"`
	Status                  string `json:"status"`
}

// Stats extracts statistics from the pool.
func (p *Pool) Stats() PoolStats {
	return GetPoolStats(p.Pool)
}

// GetPoolStats extracts statistics from pool.
func GetPoolStats(pool *pgxpool.Pool) PoolStats {
	stat := pool.Stat()
	s := PoolStats{
		TotalConns:              stat.TotalConns(),
		AcquiredConns:           stat.AcquiredConns(),
		IdleConns:               stat.IdleConns(),
		ConstructingConns:       stat.ConstructingConns(),
		MaxConns:                stat.MaxConns(),
		AcquireCount:            stat.AcquireCount(),
		EmptyAcquireCount:       stat.EmptyAcquireCount(),
		CanceledAcquireCount:    stat.CanceledAcquireCount(),
		AcquireDurationMillis:   stat.AcquireDuration().Milliseconds(),
		NewConnsCount:           stat.NewConnsCount(),
		MaxLifetimeDestroyCount: stat.MaxLifetimeDestroyCount(),
		MaxIdleDestroyCount:     stat.MaxIdleDestroyCount(),
		Status:                  "ok",
	}
	if s.AcquiredConns >= s.MaxConns {
		s.Status = "saturated"
	}
	return s
}

// LogPoolStats logs pool statistics.
func LogPoolStats(ctx context.Context, pool *pgxpool.Pool) {
	stats := GetPoolStats(pool)
	logger.Info(ctx, "database pool stats",
		"total", stats.TotalConns,
		"acquired", stats.AcquiredConns,
		"idle", stats.IdleConns,
		"max", stats.MaxConns,
		"status", stats.Status,
	)
}
