package service

import (
	"time"

	id "uniagendas/pkg/domain"
)

// ScheduleCommand carries already-normalized input for Schedule.
type ScheduleCommand struct {
	PatientID       id.PatientID
	DoctorID        id.DoctorID
	ScheduledAt     time.Time
	DurationMinutes int
	Type            string
	Location        string
	Notes           string
}

// RescheduleCommand replaces the editable details of an open appointment.
type RescheduleCommand struct {
	ScheduledAt     time.Time
	DurationMinutes int
	Location        string
	Notes           string
}

// DoctorAgendaQuery lists a doctor's appointments. When Day is set only its
// calendar date is used, interpreted in the clinic's time zone.
type DoctorAgendaQuery struct {
	DoctorID id.DoctorID
	Day      *time.Time
}
