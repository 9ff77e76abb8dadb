package handler

import (
	"strings"
	"time"

	"uniagendas/internal/appointment/service"
	id "uniagendas/pkg/domain"
	dErrors "uniagendas/pkg/domain-errors"
	"uniagendas/pkg/validation"
)

const dayLayout = "2006-01-02"

type ScheduleAppointmentRequest struct {
	PatientID       string `json:"patient_id" validate:"required,uuid"`
	DoctorID        string `json:"doctor_id" validate:"required,uuid"`
	ScheduledAt     string `json:"scheduled_at" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,min=5,max=480"`
	Type            string `json:"type" validate:"required,oneof=consultation followup procedure emergency"`
	Location        string `json:"location" validate:"max=200"`
	Notes           string `json:"notes" validate:"max=2000"`
}

func (r *ScheduleAppointmentRequest) Normalize() {
	if r == nil {
		return
	}
	r.PatientID = strings.TrimSpace(r.PatientID)
	r.DoctorID = strings.TrimSpace(r.DoctorID)
	r.ScheduledAt = strings.TrimSpace(r.ScheduledAt)
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	r.Location = strings.TrimSpace(r.Location)
	r.Notes = strings.TrimSpace(r.Notes)
}

func (r *ScheduleAppointmentRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Validate(r)
}

// ToCommand assumes Validate passed, so ids and time parse.
func (r *ScheduleAppointmentRequest) ToCommand() *service.ScheduleCommand {
	patientID, _ := id.ParsePatientID(r.PatientID)
	doctorID, _ := id.ParseDoctorID(r.DoctorID)
	scheduledAt, _ := time.Parse(time.RFC3339, r.ScheduledAt)
	return &service.ScheduleCommand{
		PatientID:       patientID,
		DoctorID:        doctorID,
		ScheduledAt:     scheduledAt,
		DurationMinutes: r.DurationMinutes,
		Type:            r.Type,
		Location:        r.Location,
		Notes:           r.Notes,
	}
}

type RescheduleAppointmentRequest struct {
	ScheduledAt     string `json:"scheduled_at" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,min=5,max=480"`
	Location        string `json:"location" validate:"max=200"`
	Notes           string `json:"notes" validate:"max=2000"`
}

func (r *RescheduleAppointmentRequest) Normalize() {
	if r == nil {
		return
	}
	r.ScheduledAt = strings.TrimSpace(r.ScheduledAt)
	r.Location = strings.TrimSpace(r.Location)
	r.Notes = strings.TrimSpace(r.Notes)
}

func (r *RescheduleAppointmentRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Validate(r)
}

func (r *RescheduleAppointmentRequest) ToCommand() *service.RescheduleCommand {
	scheduledAt, _ := time.Parse(time.RFC3339, r.ScheduledAt)
	return &service.RescheduleCommand{
		ScheduledAt:     scheduledAt,
		DurationMinutes: r.DurationMinutes,
		Location:        r.Location,
		Notes:           r.Notes,
	}
}
