package domainerrors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestMessage() {
	s.Equal("patient not found", New(CodeNotFound, "patient not found").Error())
	s.Equal("not_found", (&Error{Code: CodeNotFound}).Error(), "code stands in for an empty message")
	s.Equal("protocol AGD123456 already issued", Newf(CodeConflict, "protocol %s already issued", "AGD123456").Error())
}

func (s *DomainErrorsSuite) TestMatchingByCode() {
	slotTaken := New(CodeConflict, "doctor already has appointment AGD111111 at this time")

	s.True(errors.Is(slotTaken, &Error{Code: CodeConflict}))
	s.False(errors.Is(slotTaken, &Error{Code: CodeNotFound}))
	s.False(errors.Is(slotTaken, errors.New("conflict")))

	nested := &Error{Code: CodeInternal, Message: "schedule failed", Err: slotTaken}
	s.True(errors.Is(nested, &Error{Code: CodeConflict}), "inner codes are reachable through the chain")
}

func (s *DomainErrorsSuite) TestWrap() {
	tests := []struct {
		name     string
		cause    error
		wantCode Code
	}{
		{"plain cause takes the given code", errors.New("pgx: connection refused"), CodeInternal},
		{"domain cause keeps its code", New(CodeNotFound, "doctor not found"), CodeNotFound},
		{"code survives fmt wrapping", fmt.Errorf("load: %w", New(CodeInvariantViolation, "cancelled")), CodeInvariantViolation},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			err := Wrap(tt.cause, CodeInternal, "failed to schedule appointment")

			var domainErr *Error
			s.Require().True(errors.As(err, &domainErr))
			s.Equal(tt.wantCode, domainErr.Code)
			s.Equal("failed to schedule appointment", domainErr.Message)
			s.ErrorIs(err, tt.cause)
			s.Equal(tt.cause, errors.Unwrap(err))
		})
	}
}

func (s *DomainErrorsSuite) TestHasCode() {
	wrapped := Wrap(New(CodeNotFound, "patient not found"), CodeInternal, "failed to load patient")

	s.True(HasCode(wrapped, CodeNotFound))
	s.False(HasCode(wrapped, CodeInternal))
	s.False(HasCode(errors.New("regular error"), CodeNotFound))
	s.False(HasCode(nil, CodeNotFound))
}

func (s *DomainErrorsSuite) TestCodeOf() {
	s.Equal(CodeNotFound, CodeOf(New(CodeNotFound, "doctor not found")))
	s.Equal(CodeTimeout, CodeOf(fmt.Errorf("reserve: %w", New(CodeTimeout, "registry slow"))))
	s.Equal(CodeInternal, CodeOf(context.Canceled), "plain errors count as internal")
}
