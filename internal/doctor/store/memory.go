package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"uniagendas/internal/doctor/models"
	id "uniagendas/pkg/domain"
	"uniagendas/pkg/platform/sentinel"
)

// InMemory stores doctors in memory for development and tests.
type InMemory struct {
	mu      sync.RWMutex
	doctors map[id.DoctorID]*models.Doctor
	crmIdx  map[string]id.DoctorID
}

func NewInMemory() *InMemory {
	return &InMemory{
		doctors: make(map[id.DoctorID]*models.Doctor),
		crmIdx:  make(map[string]id.DoctorID),
	}
}

func (s *InMemory) Create(_ context.Context, d *models.Doctor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.crmIdx[d.CRM]; exists {
		return fmt.Errorf("doctor crm must be unique: %w", sentinel.ErrAlreadyUsed)
	}
	stored := *d
	s.doctors[d.ID] = &stored
	s.crmIdx[d.CRM] = d.ID
	return nil
}

func (s *InMemory) Update(_ context.Context, d *models.Doctor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.doctors[d.ID]; !ok {
		return sentinel.ErrNotFound
	}
	stored := *d
	s.doctors[d.ID] = &stored
	return nil
}

func (s *InMemory) FindByID(_ context.Context, doctorID id.DoctorID) (*models.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.doctors[doctorID]; ok {
		out := *d
		return &out, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) ListBySpecialty(_ context.Context, specialty string, includeInactive bool) ([]*models.Doctor, error) {
	key := models.SpecialtyKey(specialty)
	s.mu.RLock()
	out := make([]*models.Doctor, 0)
	for _, d := range s.doctors {
		if !includeInactive && !d.Active {
			continue
		}
		if key != "" && models.SpecialtyKey(d.Specialty) != key {
			continue
		}
		c := *d
		out = append(out, &c)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].FullName != out[j].FullName {
			return out[i].FullName < out[j].FullName
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}
