package service

import (
	"log/slog"

	patientmetrics "uniagendas/internal/patient/metrics"
	"uniagendas/pkg/platform/audit"
)

// serviceConfig holds optional dependencies for the service.
type serviceConfig struct {
	logger  *slog.Logger
	emitter audit.Emitter
	metrics *patientmetrics.Metrics
}

// Option configures the service.
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

func WithMetrics(m *patientmetrics.Metrics) Option {
	return func(c *serviceConfig) {
		c.metrics = m
	}
}
