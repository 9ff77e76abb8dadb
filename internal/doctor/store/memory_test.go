package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"uniagendas/internal/doctor/models"
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

func newDoctor(name, specialty, crm string) *models.Doctor {
	now := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	return &models.Doctor{
		ID:        id.NewDoctorID(),
		FullName:  name,
		Specialty: specialty,
		CRM:       crm,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *InMemorySuite) TestCreateRejectsDuplicateCRM() {
	s.Require().NoError(s.store.Create(s.ctx, newDoctor("Dr. Ana", "Cardiologia", "CRM/SP 123456")))

	err := s.store.Create(s.ctx, newDoctor("Dr. Bia", "Pediatria", "CRM/SP 123456"))
	s.ErrorIs(err, sentinel.ErrAlreadyUsed)
}

func (s *InMemorySuite) TestListBySpecialty() {
	ana := newDoctor("Dr. Ana", "Cardiologia", "CRM/SP 1001")
	bia := newDoctor("Dr. Bia", "cardiología", "CRM/RJ 1002")
	caio := newDoctor("Dr. Caio", "Pediatria", "CRM/MG 1003")
	inactive := newDoctor("Dr. Davi", "Cardiologia", "CRM/SP 1004")
	inactive.Active = false
	for _, d := range []*models.Doctor{caio, bia, inactive, ana} {
		s.Require().NoError(s.store.Create(s.ctx, d))
	}

	s.Run("case and accent insensitive, active only", func() {
		found, err := s.store.ListBySpecialty(s.ctx, "CARDIOLOGIA", false)
		s.Require().NoError(err)
		s.Require().Len(found, 2)
		s.Equal(ana.ID, found[0].ID)
		s.Equal(bia.ID, found[1].ID)
	})

	s.Run("accented query", func() {
		found, err := s.store.ListBySpecialty(s.ctx, " Cardiología ", false)
		s.Require().NoError(err)
		s.Len(found, 2)
	})

	s.Run("including inactive", func() {
		found, err := s.store.ListBySpecialty(s.ctx, "cardiologia", true)
		s.Require().NoError(err)
		s.Len(found, 3)
	})

	s.Run("empty specialty lists everyone active", func() {
		found, err := s.store.ListBySpecialty(s.ctx, "", false)
		s.Require().NoError(err)
		s.Len(found, 3)
	})
}

func (s *InMemorySuite) TestUpdate() {
	d := newDoctor("Dr. Ana", "Cardiologia", "CRM/SP 1001")
	s.Require().NoError(s.store.Create(s.ctx, d))

	d.Active = false
	s.Require().NoError(s.store.Update(s.ctx, d))

	found, err := s.store.FindByID(s.ctx, d.ID)
	s.Require().NoError(err)
	s.False(found.Active)

	s.ErrorIs(s.store.Update(s.ctx, newDoctor("Dr. X", "Clínica", "CRM/SP 9")), sentinel.ErrNotFound)
}

func (s *InMemorySuite) TestReturnedRecordsAreCopies() {
	d := newDoctor("Dr. Ana", "Cardiologia", "CRM/SP 1001")
	s.Require().NoError(s.store.Create(s.ctx, d))

	found, err := s.store.FindByID(s.ctx, d.ID)
	s.Require().NoError(err)
	found.Active = false

	again, err := s.store.FindByID(s.ctx, d.ID)
	s.Require().NoError(err)
	s.True(again.Active)
}
