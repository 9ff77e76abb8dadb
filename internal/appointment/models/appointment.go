package models

import (
	"strings"
	"time"

	id "uniagendas/pkg/domain"
	dErrors "uniagendas/pkg/domain-errors"
	"uniagendas/pkg/validation"
)

// Appointment is a booked slot in a doctor's agenda.
type Appointment struct {
	ID                    id.AppointmentID
	Protocol              string
	PatientID             id.PatientID
	DoctorID              id.DoctorID
	ScheduledAt           time.Time
	DurationMinutes       int
	Type                  Type
	Status                Status
	Location              string
	Notes                 string
	AuthorizationProtocol string
	AttendanceProtocol    string
	ConfirmationReceipt   string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Details are the caller-supplied fields of an appointment.
type Details struct {
	ScheduledAt     time.Time
	DurationMinutes int
	Type            Type
	Location        string
	Notes           string
}

func NewAppointment(appointmentID id.AppointmentID, protocol string, patientID id.PatientID, doctorID id.DoctorID, d Details, now time.Time) (*Appointment, error) {
	if protocol == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "appointment protocol cannot be empty")
	}
	if patientID.IsNil() || doctorID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "appointment requires a patient and a doctor")
	}
	if !d.Type.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "unknown appointment type %q", d.Type)
	}
	d.Location = strings.TrimSpace(d.Location)
	d.Notes = strings.TrimSpace(d.Notes)
	if err := d.Validate(now); err != nil {
		return nil, err
	}
	return &Appointment{
		ID:              appointmentID,
		Protocol:        protocol,
		PatientID:       patientID,
		DoctorID:        doctorID,
		ScheduledAt:     d.ScheduledAt.UTC(),
		DurationMinutes: d.DurationMinutes,
		Type:            d.Type,
		Status:          StatusScheduled,
		Location:        d.Location,
		Notes:           d.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Validate checks the details against the booking rules at now.
func (d Details) Validate(now time.Time) error {
	switch {
	case d.ScheduledAt.IsZero():
		return dErrors.New(dErrors.CodeInvariantViolation, "appointment time is required")
	case !d.ScheduledAt.After(now):
		return dErrors.New(dErrors.CodeInvariantViolation, "appointment must be scheduled in the future")
	case d.DurationMinutes < validation.MinDurationMinutes || d.DurationMinutes > validation.MaxDurationMinutes:
		return dErrors.Newf(dErrors.CodeInvariantViolation, "duration must be between %d and %d minutes",
			validation.MinDurationMinutes, validation.MaxDurationMinutes)
	case len(d.Location) > validation.MaxLocationLength:
		return dErrors.Newf(dErrors.CodeInvariantViolation, "location must be %d characters or less", validation.MaxLocationLength)
	case len(d.Notes) > validation.MaxNotesLength:
		return dErrors.Newf(dErrors.CodeInvariantViolation, "notes must be %d characters or less", validation.MaxNotesLength)
	}
	return nil
}

// EndsAt is the scheduled time plus the duration.
func (a *Appointment) EndsAt() time.Time {
	return a.ScheduledAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// Overlaps reports whether both appointments hold the doctor at the same time.
// Half-open intervals: one ending at 10:00 does not overlap one starting at 10:00.
func (a *Appointment) Overlaps(other *Appointment) bool {
	return a.ScheduledAt.Before(other.EndsAt()) && other.ScheduledAt.Before(a.EndsAt())
}

// Confirm records the confirmation receipt.
func (a *Appointment) Confirm(receipt string, now time.Time) error {
	if err := a.transition(StatusConfirmed, now); err != nil {
		return err
	}
	a.ConfirmationReceipt = receipt
	return nil
}

// Complete records the attendance protocol issued for the visit.
func (a *Appointment) Complete(attendanceProtocol string, now time.Time) error {
	if err := a.transition(StatusCompleted, now); err != nil {
		return err
	}
	a.AttendanceProtocol = attendanceProtocol
	return nil
}

func (a *Appointment) Cancel(now time.Time) error {
	return a.transition(StatusCancelled, now)
}

func (a *Appointment) MarkNoShow(now time.Time) error {
	return a.transition(StatusNoShow, now)
}

// CheckTransition returns the invariant violation a move to target would
// cause, without changing anything.
func (a *Appointment) CheckTransition(target Status) error {
	if !a.Status.CanTransitionTo(target) {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "cannot move appointment from %s to %s", a.Status, target)
	}
	return nil
}

func (a *Appointment) transition(target Status, now time.Time) error {
	if err := a.CheckTransition(target); err != nil {
		return err
	}
	a.Status = target
	a.UpdatedAt = now
	return nil
}

// Reschedule replaces the editable details of an open appointment. The type
// cannot change because it decides which protocols were issued.
func (a *Appointment) Reschedule(d Details, now time.Time) error {
	if !a.Status.IsOpen() {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "cannot edit a %s appointment", a.Status)
	}
	if d.Type != "" && d.Type != a.Type {
		return dErrors.New(dErrors.CodeInvariantViolation, "appointment type cannot be changed")
	}
	d.Location = strings.TrimSpace(d.Location)
	d.Notes = strings.TrimSpace(d.Notes)
	if err := d.Validate(now); err != nil {
		return err
	}
	a.ScheduledAt = d.ScheduledAt.UTC()
	a.DurationMinutes = d.DurationMinutes
	a.Location = d.Location
	a.Notes = d.Notes
	a.UpdatedAt = now
	return nil
}
