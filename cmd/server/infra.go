package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"uniagendas/internal/platform/config"
	"uniagendas/internal/platform/database"
	"uniagendas/internal/platform/kafka"
	"uniagendas/internal/platform/redis"
)

const connectRetryFor = 30 * time.Second

// infra holds the optional backing services. Each field is nil when its
// URL or broker list is not configured.
type infra struct {
	db       *database.Pool
	redis    *redis.Client
	producer *kafka.Producer
}

func connect(ctx context.Context, cfg config.Server, log *slog.Logger) (*infra, error) {
	in := &infra{}

	db, err := database.Open(ctx, cfg.Database,
		database.WithConnectRetry(connectRetryFor),
		database.WithStatsCollector(prometheus.DefaultRegisterer),
		database.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}
	in.db = db
	if db != nil {
		if err := database.Migrate(db.DB()); err != nil {
			in.close(log)
			return nil, err
		}
		log.Info("database migrations applied")
	}

	rdb, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		in.close(log)
		return nil, err
	}
	in.redis = rdb
	if rdb == nil {
		log.Warn("REDIS_URL not set, protocol reservations are process local")
	}

	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafka.NewProducer(cfg.Kafka, log)
		if err != nil {
			in.close(log)
			return nil, fmt.Errorf("connect kafka: %w", err)
		}
		in.producer = producer
	}
	return in, nil
}

func (in *infra) close(log *slog.Logger) {
	if in.producer != nil {
		_ = in.producer.Close()
	}
	if in.redis != nil {
		if err := in.redis.Close(); err != nil {
			log.Warn("closing redis", "error", err)
		}
	}
	if err := in.db.Close(); err != nil {
		log.Warn("closing database", "error", err)
	}
}
