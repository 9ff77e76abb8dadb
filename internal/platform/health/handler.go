// Package health serves liveness, readiness and status probes.
package health

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"uniagendas/pkg/platform/httputil"
)

// Version is set at build time via ldflags.
var Version = "dev"

// CheckTimeout bounds each readiness check.
const CheckTimeout = 2 * time.Second

// CheckFunc returns nil when the dependency is usable.
type CheckFunc func(ctx context.Context) error

type check struct {
	name     string
	fn       CheckFunc
	optional bool
}

type CheckOption func(*check)

// Optional marks a dependency the service can run without. A failing
// optional check degrades readiness but keeps it at 200.
func Optional() CheckOption {
	return func(c *check) { c.optional = true }
}

type Handler struct {
	startTime   time.Time
	environment string
	now         func() time.Time

	mu     sync.RWMutex
	checks []check
}

func New(environment string) *Handler {
	return &Handler{
		startTime:   time.Now(),
		environment: environment,
		now:         time.Now,
	}
}

// RegisterCheck adds a named dependency check to the readiness probe.
// Registering a name twice replaces the earlier check.
func (h *Handler) RegisterCheck(name string, fn CheckFunc, opts ...CheckOption) {
	c := check{name: name, fn: fn}
	for _, opt := range opts {
		opt(&c)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.checks {
		if h.checks[i].name == name {
			h.checks[i] = c
			return
		}
	}
	h.checks = append(h.checks, c)
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.HandleStatus)
	r.Get("/health/live", h.HandleLiveness)
	r.Get("/health/ready", h.HandleReadiness)
}

type LivenessResponse struct {
	Status string `json:"status"`
}

func (h *Handler) HandleLiveness(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, LivenessResponse{Status: "alive"})
}

type CheckResult struct {
	Status    string `json:"status"`
	Optional  bool   `json:"optional,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

type ReadinessResponse struct {
	Status string                 `json:"status"`
	Checks map[string]CheckResult `json:"checks,omitempty"`
}

// HandleReadiness runs the registered checks in parallel. Any failing
// required check answers 503 "not_ready"; failing optional checks answer
// 200 "degraded".
func (h *Handler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	checks := append([]check(nil), h.checks...)
	h.mu.RUnlock()

	results := make([]CheckResult, len(checks))
	var g errgroup.Group
	for i, c := range checks {
		g.Go(func() error {
			results[i] = run(r.Context(), c)
			return nil
		})
	}
	_ = g.Wait()

	response := ReadinessResponse{Status: "ready", Checks: make(map[string]CheckResult, len(checks))}
	status := http.StatusOK
	for i, c := range checks {
		res := results[i]
		response.Checks[c.name] = res
		if res.Status == "up" {
			continue
		}
		if !c.optional {
			response.Status = "not_ready"
			status = http.StatusServiceUnavailable
		} else if response.Status == "ready" {
			response.Status = "degraded"
		}
	}
	httputil.WriteJSON(w, status, response)
}

func run(ctx context.Context, c check) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, CheckTimeout)
	defer cancel()

	start := time.Now()
	err := c.fn(ctx)
	res := CheckResult{Status: "up", Optional: c.optional, LatencyMS: time.Since(start).Milliseconds()}
	if err != nil {
		res.Status = "down"
		res.Error = err.Error()
	}
	return res
}

type StatusResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Environment   string `json:"environment"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Timestamp     string `json:"timestamp"`
}

func (h *Handler) HandleStatus(w http.ResponseWriter, _ *http.Request) {
	now := h.now()
	httputil.WriteJSON(w, http.StatusOK, StatusResponse{
		Status:        "healthy",
		Version:       Version,
		Environment:   h.environment,
		UptimeSeconds: int64(now.Sub(h.startTime).Seconds()),
		Timestamp:     now.UTC().Format(time.RFC3339),
	})
}
