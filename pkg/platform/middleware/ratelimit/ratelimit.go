// Package ratelimit throttles requests per client IP with a token bucket.
package ratelimit

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	dErrors "uniagendas/pkg/domain-errors"
	"uniagendas/pkg/platform/httputil"
	"uniagendas/pkg/platform/privacy"
	"uniagendas/pkg/requestcontext"
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter keeps one token bucket per key and forgets keys idle for longer
// than the idle TTL.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	rps     rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time
	logger  *slog.Logger
	onDeny  func()
}

type Option func(*Limiter)

func WithIdleTTL(d time.Duration) Option {
	return func(l *Limiter) { l.idleTTL = d }
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) { l.logger = logger }
}

// WithClock is for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// OnDeny registers a hook called for every rejected request.
func OnDeny(fn func()) Option {
	return func(l *Limiter) { l.onDeny = fn }
}

func New(rps float64, burst int, opts ...Option) *Limiter {
	l := &Limiter{
		entries: make(map[string]*entry),
		rps:     rate.Limit(rps),
		burst:   burst,
		idleTTL: 15 * time.Minute,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow reports whether key may spend one token now. When it may not, the
// returned duration is how long until the next token.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	now := l.now()
	lim := l.get(key, now)
	r := lim.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Second
	}
	delay := r.DelayFrom(now)
	if delay == 0 {
		return true, 0
	}
	r.CancelAt(now)
	return false, delay
}

func (l *Limiter) get(key string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.entries[key]; ok {
		e.lastSeen = now
		return e.limiter
	}
	lim := rate.NewLimiter(l.rps, l.burst)
	l.entries[key] = &entry{limiter: lim, lastSeen: now}
	return lim
}

// Cleanup drops idle keys and returns how many were removed.
func (l *Limiter) Cleanup() int {
	cutoff := l.now().Add(-l.idleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for k, e := range l.entries {
		if e.lastSeen.Before(cutoff) {
			delete(l.entries, k)
			removed++
		}
	}
	return removed
}

// Run sweeps idle keys every interval until ctx is cancelled.
func (l *Limiter) Run(ctx context.Context, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			l.Cleanup()
		}
	}
}

// Middleware rejects requests over the limit with 429 and a Retry-After
// header. It keys on the client IP set by the metadata middleware.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ip := requestcontext.ClientIP(ctx)
		if ip == "" {
			ip = "unknown"
		}

		ok, wait := l.Allow(ip)
		if ok {
			next.ServeHTTP(w, r)
			return
		}

		if l.onDeny != nil {
			l.onDeny()
		}
		if l.logger != nil {
			l.logger.WarnContext(ctx, "rate limit exceeded",
				"path", r.URL.Path,
				"client_ip_prefix", privacy.AnonymizeIP(ip),
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "too many requests"))
	})
}
