// Package registry remembers which protocol codes have been handed out so
// the issuer can retry on collision.
package registry

import (
	"context"
	"sync"
	"time"
)

// InMemory reserves codes in a process-local map. Entries expire after their
// TTL; a zero TTL never expires.
type InMemory struct {
	mu       sync.Mutex
	reserved map[string]time.Time
	now      func() time.Time
}

type MemoryOption func(*InMemory)

// WithClock is for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *InMemory) { s.now = now }
}

func NewInMemory(opts ...MemoryOption) *InMemory {
	s := &InMemory{
		reserved: make(map[string]time.Time),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reserve claims code. It reports false when the code is already held.
func (s *InMemory) Reserve(_ context.Context, code string, ttl time.Duration) (bool, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if expires, ok := s.reserved[code]; ok && (expires.IsZero() || now.Before(expires)) {
		return false, nil
	}

	var expires time.Time
	if ttl > 0 {
		expires = now.Add(ttl)
	}
	s.reserved[code] = expires
	return true, nil
}

// Release frees a code, e.g. when the record that would carry it failed
// to persist.
func (s *InMemory) Release(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reserved, code)
	return nil
}

// Sweep removes expired reservations and returns how many were dropped.
func (s *InMemory) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for code, expires := range s.reserved {
		if !expires.IsZero() && !now.Before(expires) {
			delete(s.reserved, code)
			removed++
		}
	}
	return removed
}

// Len returns the number of reservations, including expired ones not yet swept.
func (s *InMemory) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reserved)
}
