package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"uniagendas/internal/patient/models"
	id "uniagendas/pkg/domain"
	"uniagendas/pkg/platform/sentinel"
)

type InMemorySuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestInMemorySuite(t *testing.T) {
	suite.Run(t, new(InMemorySuite))
}

func (s *InMemorySuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func newPatient(name, cpf string) *models.Patient {
	now := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	return &models.Patient{ID: id.NewPatientID(), FullName: name, CPF: cpf, CreatedAt: now, UpdatedAt: now}
}

func (s *InMemorySuite) TestCreateRejectsDuplicateCPF() {
	s.Require().NoError(s.store.Create(s.ctx, newPatient("Ana", "11144477735")))

	err := s.store.Create(s.ctx, newPatient("Bia", "11144477735"))
	s.ErrorIs(err, sentinel.ErrAlreadyUsed)
}

func (s *InMemorySuite) TestFindByCPF() {
	p := newPatient("Ana", "11144477735")
	s.Require().NoError(s.store.Create(s.ctx, p))

	found, err := s.store.FindByCPF(s.ctx, "11144477735")
	s.Require().NoError(err)
	s.Equal(p.ID, found.ID)

	_, err = s.store.FindByCPF(s.ctx, "52998224725")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemorySuite) TestReturnedRecordsAreCopies() {
	p := newPatient("Ana", "11144477735")
	s.Require().NoError(s.store.Create(s.ctx, p))

	found, err := s.store.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	found.FullName = "Changed"

	again, err := s.store.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Ana", again.FullName)
}

func (s *InMemorySuite) TestUpdateUnknownPatient() {
	err := s.store.Update(s.ctx, newPatient("Ana", "11144477735"))
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemorySuite) TestListPagesByName() {
	for _, p := range []*models.Patient{
		newPatient("Carla", "11144477735"),
		newPatient("Ana", "52998224725"),
		newPatient("Bruno", "39053344705"),
	} {
		s.Require().NoError(s.store.Create(s.ctx, p))
	}

	page, err := s.store.List(s.ctx, 2, 0)
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	s.Equal("Ana", page[0].FullName)
	s.Equal("Bruno", page[1].FullName)

	page, err = s.store.List(s.ctx, 2, 2)
	s.Require().NoError(err)
	s.Require().Len(page, 1)
	s.Equal("Carla", page[0].FullName)

	page, err = s.store.List(s.ctx, 2, 10)
	s.Require().NoError(err)
	s.Empty(page)
}
