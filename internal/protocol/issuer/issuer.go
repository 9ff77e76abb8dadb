// Package issuer hands out protocol codes that are unique across the
// deployment. It draws candidates from a protocol.Generator and claims them
// in a Registry, retrying with backoff when a candidate is already taken.
package issuer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	protocolmetrics "uniagendas/internal/protocol/metrics"
	"uniagendas/internal/platform/tracer"
	dErrors "uniagendas/pkg/domain-errors"
	"uniagendas/pkg/platform/sentinel"
	"uniagendas/pkg/protocol"
)

const (
	DefaultMaxAttempts    = 5
	DefaultReservationTTL = 24 * time.Hour

	datedLabel = "dated"
)

// Generator produces candidate codes.
type Generator interface {
	Generate(category protocol.Category) string
	GenerateDated(prefix string) string
}

// Registry claims codes. Reserve reports false when the code is taken.
type Registry interface {
	Reserve(ctx context.Context, code string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, code string) error
}

var errCollision = errors.New("protocol already reserved")

type Issuer struct {
	registry    Registry
	generator   Generator
	maxAttempts int
	ttl         time.Duration
	datedPrefix string
	newBackOff  func() backoff.BackOff
	metrics     *protocolmetrics.Metrics
	tracer      tracer.Tracer
	logger      *slog.Logger
}

type Option func(*Issuer)

func WithGenerator(g Generator) Option {
	return func(i *Issuer) { i.generator = g }
}

func WithMaxAttempts(n int) Option {
	return func(i *Issuer) {
		if n > 0 {
			i.maxAttempts = n
		}
	}
}

func WithReservationTTL(ttl time.Duration) Option {
	return func(i *Issuer) { i.ttl = ttl }
}

func WithDatedPrefix(prefix string) Option {
	return func(i *Issuer) {
		if prefix != "" {
			i.datedPrefix = prefix
		}
	}
}

// WithBackOff replaces the delay policy between attempts. Tests use
// backoff.ZeroBackOff.
func WithBackOff(fn func() backoff.BackOff) Option {
	return func(i *Issuer) { i.newBackOff = fn }
}

func WithMetrics(m *protocolmetrics.Metrics) Option {
	return func(i *Issuer) { i.metrics = m }
}

func WithTracer(t tracer.Tracer) Option {
	return func(i *Issuer) { i.tracer = t }
}

func WithLogger(logger *slog.Logger) Option {
	return func(i *Issuer) { i.logger = logger }
}

func New(registry Registry, opts ...Option) *Issuer {
	i := &Issuer{
		registry:    registry,
		generator:   protocol.NewGenerator(),
		maxAttempts: DefaultMaxAttempts,
		ttl:         DefaultReservationTTL,
		datedPrefix: protocol.DefaultDatedPrefix,
		newBackOff:  defaultBackOff,
		tracer:      tracer.Noop,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 2 * time.Millisecond
	b.MaxInterval = 50 * time.Millisecond
	return b
}

// Issue returns a reserved <TAG><NNNNNN> code for category.
func (i *Issuer) Issue(ctx context.Context, category protocol.Category) (string, error) {
	category = category.Normalize()
	return i.issue(ctx, string(category), func() string {
		return i.generator.Generate(category)
	})
}

// IssueDated returns a reserved dated code with the configured prefix.
func (i *Issuer) IssueDated(ctx context.Context) (string, error) {
	return i.issue(ctx, datedLabel, func() string {
		return i.generator.GenerateDated(i.datedPrefix)
	})
}

// Release gives a code back, e.g. after the record carrying it failed to save.
func (i *Issuer) Release(ctx context.Context, code string) {
	if err := i.registry.Release(ctx, code); err != nil && i.logger != nil {
		i.logger.WarnContext(ctx, "failed to release protocol", "protocol", code, "error", err)
	}
}

func (i *Issuer) issue(ctx context.Context, label string, next func() string) (code string, err error) {
	ctx, span := i.tracer.Start(ctx, tracer.SpanProtocolIssue, tracer.String(tracer.AttrCategory, label))
	defer func() { span.End(err) }()

	attempts := 0
	op := func() error {
		attempts++
		candidate := next()
		ok, err := i.registry.Reserve(ctx, candidate, i.ttl)
		if err != nil {
			return backoff.Permanent(err)
		}
		if !ok {
			i.collision(ctx, span, label, candidate, attempts)
			return errCollision
		}
		code = candidate
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(i.newBackOff(), uint64(i.maxAttempts-1)),
		ctx,
	)
	err = backoff.Retry(op, policy)
	span.SetAttributes(tracer.Int(tracer.AttrAttempts, attempts))

	switch {
	case err == nil:
		span.SetAttributes(tracer.String(tracer.AttrProtocol, code))
		if i.metrics != nil {
			i.metrics.IncrementIssued(label)
		}
		return code, nil
	case errors.Is(err, errCollision):
		if i.metrics != nil {
			i.metrics.IncrementExhausted(label)
		}
		return "", dErrors.Newf(dErrors.CodeConflict, "could not issue a unique %s protocol after %d attempts", label, attempts)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "", dErrors.Wrap(err, dErrors.CodeTimeout, "protocol issue cancelled")
	case errors.Is(err, sentinel.ErrUnavailable):
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "protocol registry unavailable")
	default:
		return "", dErrors.Wrap(err, dErrors.CodeInternal, fmt.Sprintf("failed to issue %s protocol", label))
	}
}

func (i *Issuer) collision(ctx context.Context, span tracer.Span, label, candidate string, attempt int) {
	span.AddEvent(tracer.EventProtocolCollision, tracer.Int(tracer.AttrAttempts, attempt))
	if i.metrics != nil {
		i.metrics.IncrementCollision(label)
	}
	if i.logger != nil {
		i.logger.DebugContext(ctx, "protocol collision",
			"category", label,
			"protocol", candidate,
			"attempt", attempt,
		)
	}
}
