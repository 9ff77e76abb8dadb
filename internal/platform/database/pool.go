// Package database opens the Postgres pool shared by the stores and applies
// the embedded schema migrations.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"uniagendas/internal/platform/config"
)

const pingTimeout = 5 * time.Second

// Pool is the pgx-backed *sql.DB the Postgres stores share.
type Pool struct {
	db *sql.DB
}

type Option func(*openOptions)

type openOptions struct {
	retryFor time.Duration
	registry prometheus.Registerer
	logger   *slog.Logger
}

// WithConnectRetry keeps pinging for up to d while Postgres comes up.
func WithConnectRetry(d time.Duration) Option {
	return func(o *openOptions) { o.retryFor = d }
}

// WithStatsCollector exports sql.DBStats as uniagendas_db_* metrics.
func WithStatsCollector(reg prometheus.Registerer) Option {
	return func(o *openOptions) { o.registry = reg }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *openOptions) { o.logger = logger }
}

// Open connects and pings. It returns nil, nil when no URL is configured so
// callers fall back to in-memory stores.
func Open(ctx context.Context, cfg config.DatabaseConfig, opts ...Option) (*Pool, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	o := openOptions{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	var b backoff.BackOff = &backoff.StopBackOff{}
	if o.retryFor > 0 {
		eb := backoff.NewExponentialBackOff()
		eb.MaxElapsedTime = o.retryFor
		b = eb
	}
	ping := func() error {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		return db.PingContext(pingCtx)
	}
	notify := func(err error, wait time.Duration) {
		o.logger.WarnContext(ctx, "database not ready, retrying", "error", err, "wait", wait)
	}
	if err := backoff.RetryNotify(ping, backoff.WithContext(b, ctx), notify); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if o.registry != nil {
		err := o.registry.Register(collectors.NewDBStatsCollector(db, "uniagendas"))
		var already prometheus.AlreadyRegisteredError
		if err != nil && !errors.As(err, &already) {
			_ = db.Close()
			return nil, fmt.Errorf("register db stats: %w", err)
		}
	}
	return &Pool{db: db}, nil
}

func (p *Pool) DB() *sql.DB {
	return p.db
}

// Health pings, and reports a saturated pool as unhealthy.
func (p *Pool) Health(ctx context.Context) error {
	if p == nil || p.db == nil {
		return errors.New("database not configured")
	}
	if err := p.db.PingContext(ctx); err != nil {
		return err
	}
	stats := p.db.Stats()
	if stats.MaxOpenConnections > 0 && stats.InUse >= stats.MaxOpenConnections && stats.WaitCount > 0 {
		return fmt.Errorf("connection pool exhausted: %d in use, %d waits", stats.InUse, stats.WaitCount)
	}
	return nil
}

func (p *Pool) Close() error {
	if p == nil || p.db == nil {
		return nil
	}
	return p.db.Close()
}
