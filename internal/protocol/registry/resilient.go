package registry

import (
	"context"
	"log/slog"
	"time"

	"uniagendas/internal/platform/tracer"
	dErrors "uniagendas/pkg/domain-errors"
	"uniagendas/pkg/platform/circuit"
)

// Reserver is implemented by every registry.
type Reserver interface {
	Reserve(ctx context.Context, code string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, code string) error
}

// Resilient reserves in a shared primary (Redis) and switches to a local
// fallback while the primary keeps failing. In degraded mode uniqueness is
// only guaranteed per process; the database unique constraints still reject
// duplicates that slip through.
type Resilient struct {
	primary  Reserver
	fallback Reserver
	cb       *circuit.Breaker
	logger   *slog.Logger
	tracer   tracer.Tracer
}

type ResilientOption func(*Resilient)

func WithBreaker(cb *circuit.Breaker) ResilientOption {
	return func(r *Resilient) { r.cb = cb }
}

func WithResilientLogger(logger *slog.Logger) ResilientOption {
	return func(r *Resilient) { r.logger = logger }
}

func WithResilientTracer(t tracer.Tracer) ResilientOption {
	return func(r *Resilient) { r.tracer = t }
}

func NewResilient(primary, fallback Reserver, opts ...ResilientOption) *Resilient {
	r := &Resilient{
		primary:  primary,
		fallback: fallback,
		cb:       circuit.New("protocol_registry"),
		tracer:   tracer.Noop,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reserve always tries the primary first so an open circuit can close again.
func (r *Resilient) Reserve(ctx context.Context, code string, ttl time.Duration) (ok bool, err error) {
	ctx, span := r.tracer.Start(ctx, tracer.SpanProtocolReserve, tracer.String(tracer.AttrProtocol, code))
	defer func() { span.End(err) }()

	ok, err = r.primary.Reserve(ctx, code, ttl)
	if err != nil {
		useFallback, change := r.cb.RecordFailure()
		if change.Opened {
			r.log(ctx, slog.LevelError, "protocol registry circuit opened", "error", err)
		}
		if !useFallback {
			return false, err
		}
		span.SetAttributes(tracer.Bool(tracer.AttrDegraded, true))
		return r.fallback.Reserve(ctx, code, ttl)
	}

	usePrimary, change := r.cb.RecordSuccess()
	if change.Closed {
		r.log(ctx, slog.LevelInfo, "protocol registry circuit closed")
	}
	if !usePrimary {
		// Still recovering: keep the local view complete as well.
		if ok {
			if _, err := r.fallback.Reserve(ctx, code, ttl); err != nil {
				r.log(ctx, slog.LevelWarn, "fallback reservation failed", "protocol", code, "error", err)
			}
		}
	}
	return ok, nil
}

func (r *Resilient) Release(ctx context.Context, code string) error {
	_ = r.fallback.Release(ctx, code)
	return r.primary.Release(ctx, code)
}

// Degraded reports whether reservations are being served by the fallback.
func (r *Resilient) Degraded() bool {
	return r.cb.IsOpen()
}

// Health fails while the circuit is open. It backs an optional readiness
// check: the service keeps issuing codes, only from local state.
func (r *Resilient) Health(context.Context) error {
	if r.Degraded() {
		return dErrors.Newf(dErrors.CodeUnavailable, "protocol registry %s is open, reserving locally", r.cb.Name())
	}
	return nil
}

func (r *Resilient) log(ctx context.Context, level slog.Level, msg string, args ...any) {
	if r.logger == nil {
		return
	}
	args = append(args, "circuit", r.cb.Name())
	r.logger.Log(ctx, level, msg, args...)
}
