// Package publisher hands audit events to a store, either inline or through
// a bounded queue drained by one worker.
package publisher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	dErrors "uniagendas/pkg/domain-errors"
	audit "uniagendas/pkg/platform/audit"
	"uniagendas/pkg/requestcontext"
)

const appendTimeout = 10 * time.Second

// Metrics counts what happened to emitted events.
type Metrics struct {
	Outcomes *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Outcomes: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "uniagendas_audit_events_total",
			Help: "Audit events by outcome (published, dropped, failed)",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) observe(outcome string) {
	if m != nil {
		m.Outcomes.WithLabelValues(outcome).Inc()
	}
}

// Publisher delivers audit events to a store. With a queue, Emit only
// enqueues and a background worker appends, retrying transient failures.
type Publisher struct {
	store      audit.Store
	queue      chan audit.Event
	done       chan struct{}
	closeOnce  sync.Once
	newBackOff func() backoff.BackOff
	metrics    *Metrics
	logger     *slog.Logger
}

type Option func(*Publisher)

// WithQueue switches to async delivery with room for size pending events.
func WithQueue(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.queue = make(chan audit.Event, size)
		}
	}
}

// WithRetry bounds how long the worker keeps retrying one event.
func WithRetry(maxElapsed time.Duration) Option {
	return func(p *Publisher) {
		p.newBackOff = func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 50 * time.Millisecond
			b.MaxElapsedTime = maxElapsed
			return b
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) { p.metrics = m }
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

func New(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store:      store,
		newBackOff: func() backoff.BackOff { return &backoff.StopBackOff{} },
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.queue != nil {
		p.done = make(chan struct{})
		go p.drain()
	}
	return p
}

// Emit stamps the event with the request clock when it has no timestamp.
// In async mode a full queue drops the event and reports unavailable.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if p.queue == nil {
		if err := p.store.Append(ctx, event); err != nil {
			p.metrics.observe("failed")
			return err
		}
		p.metrics.observe("published")
		return nil
	}

	select {
	case p.queue <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		p.metrics.observe("dropped")
		p.logger.WarnContext(ctx, "audit queue full, event dropped",
			"action", event.Action,
			"subject", event.Subject,
		)
		return dErrors.New(dErrors.CodeUnavailable, "audit queue full")
	}
}

func (p *Publisher) drain() {
	defer close(p.done)
	for event := range p.queue {
		p.deliver(event)
	}
}

func (p *Publisher) deliver(event audit.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
	defer cancel()

	failed := false
	for _, store := range p.targets() {
		err := backoff.Retry(func() error {
			return store.Append(ctx, event)
		}, backoff.WithContext(p.newBackOff(), ctx))
		if err != nil {
			failed = true
			p.logger.Error("failed to publish audit event",
				"error", err,
				"action", event.Action,
				"subject", event.Subject,
			)
		}
	}
	if failed {
		p.metrics.observe("failed")
		return
	}
	p.metrics.observe("published")
}

// targets splits a Tee so each store is retried on its own and a store that
// already accepted an event never receives it again.
func (p *Publisher) targets() []audit.Store {
	if tee, ok := p.store.(audit.Tee); ok {
		return tee
	}
	return []audit.Store{p.store}
}

// Pending reports how many events are waiting for the worker.
func (p *Publisher) Pending() int {
	return len(p.queue)
}

// Close stops accepting events and waits for the queue to drain or ctx to
// end, whichever comes first. Emit must not be called after Close.
func (p *Publisher) Close(ctx context.Context) error {
	if p.queue == nil {
		return nil
	}
	p.closeOnce.Do(func() { close(p.queue) })
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
