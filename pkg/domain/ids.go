// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "uniagendas/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing a PatientID where a DoctorID is expected.
type (
	PatientID     uuid.UUID
	DoctorID      uuid.UUID
	AppointmentID uuid.UUID
)

func NewPatientID() PatientID         { return PatientID(uuid.New()) }
func NewDoctorID() DoctorID           { return DoctorID(uuid.New()) }
func NewAppointmentID() AppointmentID { return AppointmentID(uuid.New()) }

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParsePatientID(s string) (PatientID, error) {
	id, err := parseUUID(s, "patient ID")
	return PatientID(id), err
}

func ParseDoctorID(s string) (DoctorID, error) {
	id, err := parseUUID(s, "doctor ID")
	return DoctorID(id), err
}

func ParseAppointmentID(s string) (AppointmentID, error) {
	id, err := parseUUID(s, "appointment ID")
	return AppointmentID(id), err
}

func (id PatientID) String() string     { return uuid.UUID(id).String() }
func (id DoctorID) String() string      { return uuid.UUID(id).String() }
func (id AppointmentID) String() string { return uuid.UUID(id).String() }

func (id PatientID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id DoctorID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id AppointmentID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// parseUUID is the shared validation logic.
// Nil UUIDs parse successfully; services reject them with IsNil so that store
// lookups keep returning consistent not-found errors.
func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label+" format")
	}
	return id, nil
}
