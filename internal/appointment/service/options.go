package service

import (
	"log/slog"
	"time"

	appointmentmetrics "uniagendas/internal/appointment/metrics"
	"uniagendas/internal/platform/tracer"
	"uniagendas/pkg/platform/audit"
)

type serviceConfig struct {
	logger   *slog.Logger
	emitter  audit.Emitter
	metrics  *appointmentmetrics.Metrics
	tracer   tracer.Tracer
	location *time.Location
}

type Option func(c *serviceConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(c *serviceConfig) {
		c.logger = logger
	}
}

// WithAuditEmitter sets where appointment events are published.
func WithAuditEmitter(emitter audit.Emitter) Option {
	return func(c *serviceConfig) {
		c.emitter = emitter
	}
}

func WithMetrics(m *appointmentmetrics.Metrics) Option {
	return func(c *serviceConfig) {
		c.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(c *serviceConfig) {
		if t != nil {
			c.tracer = t
		}
	}
}

// WithLocation sets the clinic's time zone, used to resolve day filters.
func WithLocation(loc *time.Location) Option {
	return func(c *serviceConfig) {
		if loc != nil {
			c.location = loc
		}
	}
}
