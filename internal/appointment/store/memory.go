package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"uniagendas/internal/appointment/models"
	id "uniagendas/pkg/domain"
	"uniagendas/pkg/platform/sentinel"
)

// InMemory stores appointments in memory for development and tests.
type InMemory struct {
	mu           sync.RWMutex
	appointments map[id.AppointmentID]*models.Appointment
	// codes indexes every protocol an appointment carries.
	codes map[string]id.AppointmentID
}

func NewInMemory() *InMemory {
	return &InMemory{
		appointments: make(map[id.AppointmentID]*models.Appointment),
		codes:        make(map[string]id.AppointmentID),
	}
}

func (s *InMemory) Create(_ context.Context, a *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkCodes(a); err != nil {
		return err
	}
	stored := *a
	s.appointments[a.ID] = &stored
	s.indexCodes(a)
	return nil
}

func (s *InMemory) UpdateIfStatus(_ context.Context, a *models.Appointment, from models.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.appointments[a.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if current.Status != from {
		return fmt.Errorf("appointment status is %s, expected %s: %w", current.Status, from, sentinel.ErrConflict)
	}
	if err := s.checkCodes(a); err != nil {
		return err
	}
	stored := *a
	s.appointments[a.ID] = &stored
	s.indexCodes(a)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, appointmentID id.AppointmentID) (*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.appointments[appointmentID]; ok {
		out := *a
		return &out, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindByProtocol(_ context.Context, code string) (*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.appointments {
		if a.Protocol == code {
			out := *a
			return &out, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) ListByPatient(_ context.Context, patientID id.PatientID) ([]*models.Appointment, error) {
	return s.list(func(a *models.Appointment) bool { return a.PatientID == patientID }), nil
}

func (s *InMemory) ListByDoctor(_ context.Context, doctorID id.DoctorID, from, to time.Time) ([]*models.Appointment, error) {
	return s.list(func(a *models.Appointment) bool {
		if a.DoctorID != doctorID {
			return false
		}
		if !from.IsZero() && a.ScheduledAt.Before(from) {
			return false
		}
		if !to.IsZero() && !a.ScheduledAt.Before(to) {
			return false
		}
		return true
	}), nil
}

// list orders by scheduled time, then id, matching the Postgres store.
func (s *InMemory) list(match func(*models.Appointment) bool) []*models.Appointment {
	s.mu.RLock()
	out := make([]*models.Appointment, 0)
	for _, a := range s.appointments {
		if match(a) {
			c := *a
			out = append(out, &c)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScheduledAt.Equal(out[j].ScheduledAt) {
			return out[i].ScheduledAt.Before(out[j].ScheduledAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func (s *InMemory) checkCodes(a *models.Appointment) error {
	for _, code := range protocolsOf(a) {
		if owner, taken := s.codes[code]; taken && owner != a.ID {
			return fmt.Errorf("appointment protocol %s must be unique: %w", code, sentinel.ErrAlreadyUsed)
		}
	}
	return nil
}

func (s *InMemory) indexCodes(a *models.Appointment) {
	for _, code := range protocolsOf(a) {
		s.codes[code] = a.ID
	}
}

func protocolsOf(a *models.Appointment) []string {
	codes := make([]string, 0, 4)
	for _, code := range []string{a.Protocol, a.AuthorizationProtocol, a.AttendanceProtocol, a.ConfirmationReceipt} {
		if code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}
