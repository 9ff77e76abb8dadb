package memory

import (
	"context"
	"sync"

	audit "uniagendas/pkg/platform/audit"
)

// InMemoryStore keeps audit events in process. It backs the publisher when
// no broker is configured and in tests.
type InMemoryStore struct {
	mu        sync.RWMutex
	events    []audit.Event
	maxEvents int
}

type Option func(*InMemoryStore)

// WithMaxEvents bounds the store; the oldest events are dropped first.
func WithMaxEvents(n int) Option {
	return func(s *InMemoryStore) {
		if n > 0 {
			s.maxEvents = n
		}
	}
}

func NewInMemoryStore(opts ...Option) *InMemoryStore {
	s := &InMemoryStore{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	if s.maxEvents > 0 && len(s.events) > s.maxEvents {
		drop := len(s.events) - s.maxEvents
		s.events = append(s.events[:0:0], s.events[drop:]...)
	}
	return nil
}

func (s *InMemoryStore) ListBySubject(_ context.Context, subject string) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []audit.Event
	for _, e := range s.events {
		if e.Subject == subject {
			out = append(out, e)
		}
	}
	return out, nil
}

// ListRecent returns up to limit events, newest first.
func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.events) {
		limit = len(s.events)
	}
	out := make([]audit.Event, 0, limit)
	for i := len(s.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.events[i])
	}
	return out, nil
}
