package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"uniagendas/internal/patient/models"
	id "uniagendas/pkg/domain"
	"uniagendas/pkg/platform/sentinel"
)

// InMemory stores patients in memory for development and tests.
type InMemory struct {
	mu       sync.RWMutex
	patients map[id.PatientID]*models.Patient
	cpfIdx   map[string]id.PatientID
}

func NewInMemory() *InMemory {
	return &InMemory{
		patients: make(map[id.PatientID]*models.Patient),
		cpfIdx:   make(map[string]id.PatientID),
	}
}

// Create inserts the patient unless its CPF is already registered.
func (s *InMemory) Create(_ context.Context, p *models.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.cpfIdx[p.CPF]; exists {
		return fmt.Errorf("patient cpf must be unique: %w", sentinel.ErrAlreadyUsed)
	}
	stored := *p
	s.patients[p.ID] = &stored
	s.cpfIdx[p.CPF] = p.ID
	return nil
}

func (s *InMemory) Update(_ context.Context, p *models.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.patients[p.ID]; !ok {
		return sentinel.ErrNotFound
	}
	stored := *p
	s.patients[p.ID] = &stored
	return nil
}

func (s *InMemory) FindByID(_ context.Context, patientID id.PatientID) (*models.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.patients[patientID]; ok {
		out := *p
		return &out, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindByCPF(ctx context.Context, cpf string) (*models.Patient, error) {
	s.mu.RLock()
	patientID, ok := s.cpfIdx[cpf]
	s.mu.RUnlock()
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.FindByID(ctx, patientID)
}

// List orders by name, then id, matching the Postgres store.
func (s *InMemory) List(_ context.Context, limit, offset int) ([]*models.Patient, error) {
	s.mu.RLock()
	all := make([]*models.Patient, 0, len(s.patients))
	for _, p := range s.patients {
		out := *p
		all = append(all, &out)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].FullName != all[j].FullName {
			return all[i].FullName < all[j].FullName
		}
		return all[i].ID.String() < all[j].ID.String()
	})
	if offset >= len(all) {
		return []*models.Patient{}, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], nil
}
