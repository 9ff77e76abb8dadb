// Package circuit provides a two-state circuit breaker for calls to backing
// services that have a local fallback.
package circuit

import "sync"

type State int

const (
	// StateClosed sends calls to the primary.
	StateClosed State = iota
	// StateOpen sends calls to the fallback.
	StateOpen
)

func (s State) String() string {
	if s == StateOpen {
		return "open"
	}
	return "closed"
}

// StateChange reports a transition caused by the last recorded outcome.
type StateChange struct {
	Opened bool
	Closed bool
}

// Breaker opens after FailureThreshold consecutive failures and closes
// again after SuccessThreshold consecutive successes while open.
type Breaker struct {
	mu               sync.Mutex
	state            State
	name             string
	failureCount     int
	successCount     int
	failureThreshold int
	successThreshold int
	onChange         func(name string, to State)
}

type Option func(*Breaker)

// WithFailureThreshold defaults to 5.
func WithFailureThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.failureThreshold = n
		}
	}
}

// WithSuccessThreshold defaults to 3.
func WithSuccessThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.successThreshold = n
		}
	}
}

// OnStateChange registers fn to run after every transition, outside the lock.
func OnStateChange(fn func(name string, to State)) Option {
	return func(b *Breaker) { b.onChange = fn }
}

func New(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:             name,
		state:            StateClosed,
		failureThreshold: 5,
		successThreshold: 3,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

func (b *Breaker) Name() string {
	return b.name
}

func (b *Breaker) IsOpen() bool {
	return b.State() == StateOpen
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// RecordFailure reports whether callers should now use the fallback.
func (b *Breaker) RecordFailure() (useFallback bool, change StateChange) {
	b.mu.Lock()
	b.failureCount++
	b.successCount = 0
	switch {
	case b.state == StateOpen:
		useFallback = true
	case b.failureCount >= b.failureThreshold:
		b.state = StateOpen
		useFallback, change = true, StateChange{Opened: true}
	}
	b.mu.Unlock()

	b.notify(change)
	return useFallback, change
}

// RecordSuccess reports whether the primary result should be used. While
// open, successes only count towards closing.
func (b *Breaker) RecordSuccess() (usePrimary bool, change StateChange) {
	b.mu.Lock()
	if b.state == StateOpen {
		b.successCount++
		if b.successCount >= b.successThreshold {
			b.state = StateClosed
			b.failureCount = 0
			b.successCount = 0
			usePrimary, change = true, StateChange{Closed: true}
		}
	} else {
		b.failureCount = 0
		usePrimary = true
	}
	b.mu.Unlock()

	b.notify(change)
	return usePrimary, change
}

func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateClosed
	b.failureCount = 0
	b.successCount = 0
}

func (b *Breaker) notify(change StateChange) {
	if b.onChange == nil {
		return
	}
	switch {
	case change.Opened:
		b.onChange(b.name, StateOpen)
	case change.Closed:
		b.onChange(b.name, StateClosed)
	}
}
