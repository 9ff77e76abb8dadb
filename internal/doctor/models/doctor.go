package models

import (
	"fmt"
	"strings"
	"time"

	"uniagendas/pkg/brformat"
	id "uniagendas/pkg/domain"
	dErrors "uniagendas/pkg/domain-errors"
	"uniagendas/pkg/validation"
)

type Doctor struct {
	ID        id.DoctorID
	FullName  string
	Specialty string
	CRM       string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CRM renders a regional medical council registration as "CRM/UF NNNNNN".
func CRM(state, number string) string {
	return fmt.Sprintf("CRM/%s %s", strings.ToUpper(strings.TrimSpace(state)), strings.TrimSpace(number))
}

// SpecialtyKey is the form specialties are matched by, so "Cardiología"
// and "cardiologia" name the same specialty.
func SpecialtyKey(specialty string) string {
	return brformat.SearchKey(specialty)
}

func NewDoctor(doctorID id.DoctorID, fullName, specialty, crm string, now time.Time) (*Doctor, error) {
	fullName = strings.TrimSpace(fullName)
	specialty = strings.TrimSpace(specialty)
	switch {
	case fullName == "":
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "doctor name cannot be empty")
	case len(fullName) > validation.MaxNameLength:
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "doctor name must be %d characters or less", validation.MaxNameLength)
	case specialty == "":
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "doctor specialty cannot be empty")
	case len(specialty) > validation.MaxSpecialtyLength:
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "doctor specialty must be %d characters or less", validation.MaxSpecialtyLength)
	case crm == "":
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "doctor CRM cannot be empty")
	}
	return &Doctor{
		ID:        doctorID,
		FullName:  fullName,
		Specialty: specialty,
		CRM:       crm,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Deactivate stops the doctor from receiving new appointments. Existing
// appointments are untouched.
func (d *Doctor) Deactivate(now time.Time) error {
	if !d.Active {
		return dErrors.New(dErrors.CodeInvariantViolation, "doctor is already inactive")
	}
	d.Active = false
	d.UpdatedAt = now
	return nil
}

func (d *Doctor) Reactivate(now time.Time) error {
	if d.Active {
		return dErrors.New(dErrors.CodeInvariantViolation, "doctor is already active")
	}
	d.Active = true
	d.UpdatedAt = now
	return nil
}
