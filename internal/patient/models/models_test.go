package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "uniagendas/pkg/domain"
	dErrors "uniagendas/pkg/domain-errors"
)

var now = time.Date(2026, 4, 15, 9, 0, 0, 0, time.UTC)

func TestNewPatient(t *testing.T) {
	p, err := NewPatient(id.NewPatientID(), "  Maria Silva ", "111.444.777-35", "11987654321", "maria@example.com", nil, now)
	require.NoError(t, err)
	assert.Equal(t, "Maria Silva", p.FullName)
	assert.Equal(t, "11144477735", p.CPF)
	assert.Equal(t, now, p.CreatedAt)
	assert.Equal(t, now, p.UpdatedAt)
}

func TestNewPatientInvariants(t *testing.T) {
	future := now.AddDate(0, 0, 1)
	tests := []struct {
		name      string
		fullName  string
		cpf       string
		birthDate *time.Time
	}{
		{"blank name", "   ", "11144477735", nil},
		{"long name", strings.Repeat("a", 129), "11144477735", nil},
		{"bad check digits", "Maria", "11144477700", nil},
		{"repeated digits", "Maria", "11111111111", nil},
		{"born tomorrow", "Maria", "11144477735", &future},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPatient(id.NewPatientID(), tt.fullName, tt.cpf, "", "", tt.birthDate, now)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation), "got %v", err)
		})
	}
}

func TestUpdateContact(t *testing.T) {
	p, err := NewPatient(id.NewPatientID(), "Maria", "11144477735", "11987654321", "", nil, now)
	require.NoError(t, err)
	later := now.Add(time.Hour)

	same := "11987654321"
	changed, err := p.UpdateContact(nil, &same, nil, later)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, now, p.UpdatedAt)

	email := "maria@example.com"
	changed, err = p.UpdateContact(nil, nil, &email, later)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, later, p.UpdatedAt)

	blank := " "
	_, err = p.UpdateContact(&blank, nil, nil, later)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestAge(t *testing.T) {
	p := &Patient{}
	assert.Equal(t, -1, p.Age(now))

	birth := time.Date(1990, 4, 16, 0, 0, 0, 0, time.UTC)
	p.BirthDate = &birth
	assert.Equal(t, 35, p.Age(now))
	assert.Equal(t, 36, p.Age(now.AddDate(0, 0, 1)))
}
