// Package httptransport assembles the public router. Handlers own their
// routes; this package only decides which middleware guards which group.
package httptransport

import (
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adminmw "uniagendas/pkg/platform/middleware/admin"
	"uniagendas/pkg/platform/middleware/device"
	"uniagendas/pkg/platform/middleware/metadata"
	"uniagendas/pkg/platform/middleware/ratelimit"
	"uniagendas/pkg/platform/middleware/request"
	"uniagendas/pkg/platform/middleware/requesttime"
	"uniagendas/pkg/validation"
)

// RouteRegistrar is implemented by every feature handler.
type RouteRegistrar interface {
	Register(r chi.Router)
}

// Config lists what the router mounts. Nil registrars are skipped.
type Config struct {
	Health       RouteRegistrar
	Patients     RouteRegistrar
	Doctors      RouteRegistrar
	Appointments RouteRegistrar
	Tools        RouteRegistrar
	Admin        RouteRegistrar

	// ToolsLimiter throttles the tools group per client IP.
	ToolsLimiter *ratelimit.Limiter
	// AdminToken guards the admin group. Empty leaves it unmounted.
	AdminToken string

	Metrics        *request.Metrics
	Gatherer       prometheus.Gatherer
	Timeout        time.Duration
	TrustedProxies []netip.Prefix
}

// NewRouter wires all public endpoints with middleware.
func NewRouter(cfg Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(request.Recovery(logger))
	r.Use(request.RequestID)
	r.Use(metadata.NewResolver(cfg.TrustedProxies).Handler)
	r.Use(device.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(request.Logger(logger))
	if cfg.Timeout > 0 {
		r.Use(request.Timeout(cfg.Timeout))
	}
	r.Use(request.BodyLimit(validation.MaxBodySize))
	r.Use(request.ContentTypeJSON)
	r.Use(request.Instrument(cfg.Metrics))

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	mount(r, cfg.Health)
	mount(r, cfg.Patients)
	mount(r, cfg.Doctors)
	mount(r, cfg.Appointments)

	if cfg.Tools != nil {
		r.Group(func(g chi.Router) {
			if cfg.ToolsLimiter != nil {
				g.Use(cfg.ToolsLimiter.Middleware)
			}
			cfg.Tools.Register(g)
		})
	}

	if cfg.Admin != nil && cfg.AdminToken != "" {
		r.Group(func(g chi.Router) {
			g.Use(adminmw.RequireToken(cfg.AdminToken, logger))
			cfg.Admin.Register(g)
		})
	}

	return r
}

func mount(r chi.Router, registrar RouteRegistrar) {
	if registrar != nil {
		registrar.Register(r)
	}
}
