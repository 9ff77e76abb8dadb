//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"uniagendas/pkg/platform/sentinel"
	"uniagendas/pkg/testutil/containers"
)

type PostgresSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *PostgresStore
	ctx      context.Context
}

func TestPostgresSuite(t *testing.T) {
	suite.Run(t, new(PostgresSuite))
}

func (s *PostgresSuite) SetupSuite() {
	s.postgres = containers.Postgres(s.T())
	s.store = NewPostgres(s.postgres.DB)
	s.ctx = context.Background()
}

func (s *PostgresSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateAll(s.ctx))
}

func (s *PostgresSuite) TestCreateAndFind() {
	birth := time.Date(1985, 7, 2, 0, 0, 0, 0, time.UTC)
	p := newPatient("Ana", "11144477735")
	p.BirthDate = &birth
	p.Phone = "11987654321"
	s.Require().NoError(s.store.Create(s.ctx, p))

	found, err := s.store.FindByCPF(s.ctx, "11144477735")
	s.Require().NoError(err)
	s.Equal(p.ID, found.ID)
	s.Equal("11987654321", found.Phone)
	s.Require().NotNil(found.BirthDate)
	s.True(birth.Equal(*found.BirthDate))
}

func (s *PostgresSuite) TestDuplicateCPFIsAlreadyUsed() {
	s.Require().NoError(s.store.Create(s.ctx, newPatient("Ana", "11144477735")))

	err := s.store.Create(s.ctx, newPatient("Bia", "11144477735"))
	s.ErrorIs(err, sentinel.ErrAlreadyUsed)
}

func (s *PostgresSuite) TestUpdate() {
	p := newPatient("Ana", "11144477735")
	s.Require().NoError(s.store.Create(s.ctx, p))

	p.Email = "ana@example.com"
	p.UpdatedAt = p.UpdatedAt.Add(time.Hour)
	s.Require().NoError(s.store.Update(s.ctx, p))

	found, err := s.store.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("ana@example.com", found.Email)

	s.ErrorIs(s.store.Update(s.ctx, newPatient("X", "52998224725")), sentinel.ErrNotFound)
}

func (s *PostgresSuite) TestListOrdersByName() {
	s.Require().NoError(s.store.Create(s.ctx, newPatient("Bruno", "39053344705")))
	s.Require().NoError(s.store.Create(s.ctx, newPatient("Ana", "52998224725")))

	page, err := s.store.List(s.ctx, 10, 0)
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	s.Equal("Ana", page[0].FullName)
}

