package models

import (
	"strings"
	"time"

	id "uniagendas/pkg/domain"
	dErrors "uniagendas/pkg/domain-errors"
	"uniagendas/pkg/taxpayer"
	"uniagendas/pkg/validation"
)

// Patient is a person who can book appointments. CPF holds the eleven
// digits only; formatting happens at the edges.
type Patient struct {
	ID        id.PatientID
	FullName  string
	CPF       string
	Phone     string
	Email     string
	BirthDate *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPatient builds a patient, enforcing the invariants every stored
// patient satisfies.
func NewPatient(patientID id.PatientID, fullName, cpf, phone, email string, birthDate *time.Time, now time.Time) (*Patient, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "patient name cannot be empty")
	}
	if len(fullName) > validation.MaxNameLength {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "patient name must be %d characters or less", validation.MaxNameLength)
	}
	if !taxpayer.IsValid(cpf) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "patient CPF is invalid")
	}
	if birthDate != nil && birthDate.After(now) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "birth date cannot be in the future")
	}
	return &Patient{
		ID:        patientID,
		FullName:  fullName,
		CPF:       taxpayer.Digits(cpf),
		Phone:     phone,
		Email:     email,
		BirthDate: birthDate,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// UpdateContact replaces the non-nil fields. It reports whether anything
// changed; UpdatedAt only moves when it did.
func (p *Patient) UpdateContact(fullName, phone, email *string, now time.Time) (bool, error) {
	changed := false
	if fullName != nil {
		name := strings.TrimSpace(*fullName)
		if name == "" {
			return false, dErrors.New(dErrors.CodeInvariantViolation, "patient name cannot be empty")
		}
		if name != p.FullName {
			p.FullName = name
			changed = true
		}
	}
	if phone != nil && *phone != p.Phone {
		p.Phone = *phone
		changed = true
	}
	if email != nil && *email != p.Email {
		p.Email = *email
		changed = true
	}
	if changed {
		p.UpdatedAt = now
	}
	return changed, nil
}

// Age in whole years at now, or -1 when the birth date is unknown.
func (p *Patient) Age(now time.Time) int {
	if p.BirthDate == nil {
		return -1
	}
	b := *p.BirthDate
	years := now.Year() - b.Year()
	if now.YearDay() < b.YearDay() {
		years--
	}
	return years
}
