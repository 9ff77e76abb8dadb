package handler

import (
	"context"
	"time"

	"uniagendas/internal/appointment/models"
	"uniagendas/pkg/brformat"
	"uniagendas/pkg/requestcontext"
)

// notesPreviewLength is how many characters of the notes a card shows.
const notesPreviewLength = 60

// Labels shown by the front-end appointment card.
var (
	statusLabels = map[models.Status]string{
		models.StatusScheduled: "Agendado",
		models.StatusConfirmed: "Confirmado",
		models.StatusCompleted: "Realizado",
		models.StatusCancelled: "Cancelado",
		models.StatusNoShow:    "Faltou",
	}
	typeLabels = map[models.Type]string{
		models.TypeConsultation: "Consulta",
		models.TypeFollowUp:     "Retorno",
		models.TypeProcedure:    "Procedimento",
		models.TypeEmergency:    "Urgência",
	}
)

type AppointmentResponse struct {
	ID                    string    `json:"id"`
	Protocol              string    `json:"protocol"`
	PatientID             string    `json:"patient_id"`
	DoctorID              string    `json:"doctor_id"`
	ScheduledAt           time.Time `json:"scheduled_at"`
	EndsAt                time.Time `json:"ends_at"`
	DurationMinutes       int       `json:"duration_minutes"`
	Type                  string    `json:"type"`
	TypeLabel             string    `json:"type_label"`
	Status                string    `json:"status"`
	StatusLabel           string    `json:"status_label"`
	Location              string    `json:"location,omitempty"`
	Notes                 string    `json:"notes,omitempty"`
	NotesPreview          string    `json:"notes_preview,omitempty"`
	AuthorizationProtocol string    `json:"authorization_protocol,omitempty"`
	AttendanceProtocol    string    `json:"attendance_protocol,omitempty"`
	ConfirmationReceipt   string    `json:"confirmation_receipt,omitempty"`
	Date                  string    `json:"date"`
	Time                  string    `json:"time"`
	When                  string    `json:"when"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
	LastChange            string    `json:"last_change"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Count        int                   `json:"count"`
}

// toResponse adds the pt-BR display fields of the appointment card, in the
// clinic's zone. LastChange is relative to the request time.
func (h *Handler) toResponse(ctx context.Context, a *models.Appointment) *AppointmentResponse {
	local := a.ScheduledAt.In(h.location)
	return &AppointmentResponse{
		ID:                    a.ID.String(),
		Protocol:              a.Protocol,
		PatientID:             a.PatientID.String(),
		DoctorID:              a.DoctorID.String(),
		ScheduledAt:           a.ScheduledAt,
		EndsAt:                a.EndsAt(),
		DurationMinutes:       a.DurationMinutes,
		Type:                  string(a.Type),
		TypeLabel:             typeLabels[a.Type],
		Status:                a.Status.String(),
		StatusLabel:           statusLabels[a.Status],
		Location:              a.Location,
		Notes:                 a.Notes,
		NotesPreview:          brformat.Truncate(a.Notes, notesPreviewLength),
		AuthorizationProtocol: a.AuthorizationProtocol,
		AttendanceProtocol:    a.AttendanceProtocol,
		ConfirmationReceipt:   a.ConfirmationReceipt,
		Date:                  brformat.Date(local),
		Time:                  brformat.Time(local),
		When:                  brformat.DateTime(local),
		CreatedAt:             a.CreatedAt,
		UpdatedAt:             a.UpdatedAt,
		LastChange:            brformat.RelativeTime(a.UpdatedAt, requestcontext.Now(ctx)),
	}
}

func (h *Handler) toListResponse(ctx context.Context, appts []*models.Appointment) *AppointmentListResponse {
	out := &AppointmentListResponse{Appointments: make([]AppointmentResponse, 0, len(appts))}
	for _, a := range appts {
		out.Appointments = append(out.Appointments, *h.toResponse(ctx, a))
	}
	out.Count = len(out.Appointments)
	return out
}
