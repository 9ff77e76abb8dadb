package issuer

//go:generate mockgen -source=issuer.go -destination=mocks/issuer_mock.go -package=mocks Generator,Registry

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"uniagendas/internal/protocol/issuer/mocks"
	protocolmetrics "uniagendas/internal/protocol/metrics"
	"uniagendas/internal/protocol/registry"
	dErrors "uniagendas/pkg/domain-errors"
	"uniagendas/pkg/platform/sentinel"
	"uniagendas/pkg/protocol"
)

type IssuerSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	generator *mocks.MockGenerator
	registry  *mocks.MockRegistry
	metrics   *protocolmetrics.Metrics
	issuer    *Issuer
	ctx       context.Context
}

func TestIssuerSuite(t *testing.T) {
	suite.Run(t, new(IssuerSuite))
}

func (s *IssuerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.generator = mocks.NewMockGenerator(s.ctrl)
	s.registry = mocks.NewMockRegistry(s.ctrl)
	s.metrics = protocolmetrics.NewWith(prometheus.NewRegistry())
	s.issuer = New(s.registry,
		WithGenerator(s.generator),
		WithMaxAttempts(3),
		WithReservationTTL(time.Hour),
		WithBackOff(func() backoff.BackOff { return &backoff.ZeroBackOff{} }),
		WithMetrics(s.metrics),
	)
	s.ctx = context.Background()
}

func (s *IssuerSuite) TestIssueReservesFirstFreeCode() {
	s.generator.EXPECT().Generate(protocol.CategoryAppointment).Return("AGD482913")
	s.registry.EXPECT().Reserve(gomock.Any(), "AGD482913", time.Hour).Return(true, nil)

	code, err := s.issuer.Issue(s.ctx, protocol.CategoryAppointment)

	s.Require().NoError(err)
	s.Equal("AGD482913", code)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Issued.WithLabelValues("appointment")))
}

func (s *IssuerSuite) TestIssueRetriesOnCollision() {
	gomock.InOrder(
		s.generator.EXPECT().Generate(protocol.CategoryAuthorization).Return("AUT100000"),
		s.registry.EXPECT().Reserve(gomock.Any(), "AUT100000", time.Hour).Return(false, nil),
		s.generator.EXPECT().Generate(protocol.CategoryAuthorization).Return("AUT100001"),
		s.registry.EXPECT().Reserve(gomock.Any(), "AUT100001", time.Hour).Return(true, nil),
	)

	code, err := s.issuer.Issue(s.ctx, protocol.CategoryAuthorization)

	s.Require().NoError(err)
	s.Equal("AUT100001", code)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Collisions.WithLabelValues("authorization")))
}

func (s *IssuerSuite) TestIssueGivesUpAfterMaxAttempts() {
	s.generator.EXPECT().Generate(protocol.CategoryAttendance).Return("ATD555555").Times(3)
	s.registry.EXPECT().Reserve(gomock.Any(), "ATD555555", time.Hour).Return(false, nil).Times(3)

	code, err := s.issuer.Issue(s.ctx, protocol.CategoryAttendance)

	s.Empty(code)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	s.Equal("could not issue a unique attendance protocol after 3 attempts", err.Error())
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Exhausted.WithLabelValues("attendance")))
}

func (s *IssuerSuite) TestUnknownCategoryIssuesAttendance() {
	s.generator.EXPECT().Generate(protocol.CategoryAttendance).Return("ATD123123")
	s.registry.EXPECT().Reserve(gomock.Any(), "ATD123123", time.Hour).Return(true, nil)

	code, err := s.issuer.Issue(s.ctx, protocol.Category("billing"))

	s.Require().NoError(err)
	s.Equal("ATD123123", code)
}

func (s *IssuerSuite) TestRegistryFailureIsNotRetried() {
	s.generator.EXPECT().Generate(protocol.CategoryAppointment).Return("AGD700000")
	s.registry.EXPECT().Reserve(gomock.Any(), "AGD700000", time.Hour).
		Return(false, errors.Join(sentinel.ErrUnavailable, errors.New("dial tcp: connection refused")))

	_, err := s.issuer.Issue(s.ctx, protocol.CategoryAppointment)

	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
}

func (s *IssuerSuite) TestIssueDatedUsesConfiguredPrefix() {
	issuer := New(s.registry,
		WithGenerator(s.generator),
		WithDatedPrefix("HCU"),
		WithReservationTTL(time.Hour),
	)
	s.generator.EXPECT().GenerateDated("HCU").Return("HCU202610170042")
	s.registry.EXPECT().Reserve(gomock.Any(), "HCU202610170042", time.Hour).Return(true, nil)

	code, err := issuer.IssueDated(s.ctx)

	s.Require().NoError(err)
	s.Equal("HCU202610170042", code)
}

func (s *IssuerSuite) TestIssueDatedStampsClinicDay() {
	gen := protocol.NewGenerator(
		protocol.WithSource(rand.New(rand.NewPCG(5, 6))),
		protocol.WithClock(func() time.Time { return time.Date(2026, time.October, 18, 2, 59, 0, 0, time.UTC) }),
		protocol.WithLocation(time.FixedZone("BRT", -3*60*60)),
	)
	issuer := New(s.registry, WithGenerator(gen), WithReservationTTL(time.Hour))
	s.registry.EXPECT().Reserve(gomock.Any(), gomock.Any(), time.Hour).Return(true, nil)

	code, err := issuer.IssueDated(s.ctx)

	s.Require().NoError(err)
	s.Regexp(`^UNI20261017\d{4}$`, code)
}

func (s *IssuerSuite) TestReleaseDelegates() {
	s.registry.EXPECT().Release(gomock.Any(), "AGD482913").Return(nil)
	s.issuer.Release(s.ctx, "AGD482913")
}

// With a real registry and a seeded generator, every issued code is
// distinct even though the generator repeats itself.
func TestIssuerWithInMemoryRegistry(t *testing.T) {
	gen := protocol.NewGenerator(protocol.WithSource(rand.New(rand.NewPCG(1, 2))))
	reg := registry.NewInMemory()
	iss := New(reg,
		WithGenerator(gen),
		WithMaxAttempts(50),
		WithBackOff(func() backoff.BackOff { return &backoff.ZeroBackOff{} }),
	)

	seen := make(map[string]struct{})
	for range 2000 {
		code, err := iss.Issue(context.Background(), protocol.CategoryAppointment)
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		if _, dup := seen[code]; dup {
			t.Fatalf("duplicate protocol %s", code)
		}
		if !protocol.Valid(code) {
			t.Fatalf("invalid protocol %s", code)
		}
		seen[code] = struct{}{}
	}
}
