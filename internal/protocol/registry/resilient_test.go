package registry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	dErrors "uniagendas/pkg/domain-errors"
	"uniagendas/pkg/platform/circuit"
	"uniagendas/pkg/platform/sentinel"
)

// flakyRegistry fails while down is set and otherwise delegates to memory.
type flakyRegistry struct {
	down  bool
	inner *InMemory
	calls int
}

func (f *flakyRegistry) Reserve(ctx context.Context, code string, ttl time.Duration) (bool, error) {
	f.calls++
	if f.down {
		return false, errors.Join(sentinel.ErrUnavailable, errors.New("connection refused"))
	}
	return f.inner.Reserve(ctx, code, ttl)
}

func (f *flakyRegistry) Release(ctx context.Context, code string) error {
	if f.down {
		return sentinel.ErrUnavailable
	}
	return f.inner.Release(ctx, code)
}

type ResilientSuite struct {
	suite.Suite
	primary  *flakyRegistry
	fallback *InMemory
	registry *Resilient
	ctx      context.Context
}

func TestResilientSuite(t *testing.T) {
	suite.Run(t, new(ResilientSuite))
}

func (s *ResilientSuite) SetupTest() {
	s.primary = &flakyRegistry{inner: NewInMemory()}
	s.fallback = NewInMemory()
	s.registry = NewResilient(s.primary, s.fallback,
		WithBreaker(circuit.New("test", circuit.WithFailureThreshold(2), circuit.WithSuccessThreshold(2))),
	)
	s.ctx = context.Background()
}

func (s *ResilientSuite) TestHealthyPrimaryIsAuthoritative() {
	ok, err := s.registry.Reserve(s.ctx, "AGD000001", time.Minute)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(0, s.fallback.Len())
}

func (s *ResilientSuite) TestFailuresBelowThresholdSurface() {
	s.primary.down = true

	_, err := s.registry.Reserve(s.ctx, "AGD000001", time.Minute)
	s.ErrorIs(err, sentinel.ErrUnavailable)
	s.False(s.registry.Degraded())
}

func (s *ResilientSuite) TestOpenCircuitUsesFallback() {
	s.primary.down = true
	_, _ = s.registry.Reserve(s.ctx, "AGD000001", time.Minute)

	ok, err := s.registry.Reserve(s.ctx, "AGD000002", time.Minute)
	s.Require().NoError(err)
	s.True(ok)
	s.True(s.registry.Degraded())
	s.True(dErrors.HasCode(s.registry.Health(s.ctx), dErrors.CodeUnavailable))

	ok, err = s.registry.Reserve(s.ctx, "AGD000002", time.Minute)
	s.Require().NoError(err)
	s.False(ok, "fallback still detects collisions")
}

func (s *ResilientSuite) TestRecoveryClosesCircuit() {
	s.primary.down = true
	_, _ = s.registry.Reserve(s.ctx, "AGD000001", time.Minute)
	_, _ = s.registry.Reserve(s.ctx, "AGD000002", time.Minute)
	s.Require().True(s.registry.Degraded())

	s.primary.down = false
	_, err := s.registry.Reserve(s.ctx, "AGD000003", time.Minute)
	s.Require().NoError(err)
	s.True(s.registry.Degraded())
	s.Equal(2, s.fallback.Len(), "recovering reservations are mirrored locally")

	_, err = s.registry.Reserve(s.ctx, "AGD000004", time.Minute)
	s.Require().NoError(err)
	s.False(s.registry.Degraded())
	s.NoError(s.registry.Health(s.ctx))
}
