package service

import (
	"log/slog"

	doctormetrics "uniagendas/internal/doctor/metrics"
	"uniagendas/pkg/platform/audit"
)

type serviceConfig struct {
	logger  *slog.Logger
	emitter audit.Emitter
	metrics *doctormetrics.Metrics
}

type Option func(c *serviceConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(c *serviceConfig) {
		c.logger = logger
	}
}

func WithAuditEmitter(emitter audit.Emitter) Option {
	return func(c *serviceConfig) {
		c.emitter = emitter
	}
}

func WithMetrics(m *doctormetrics.Metrics) Option {
	return func(c *serviceConfig) {
		c.metrics = m
	}
}
