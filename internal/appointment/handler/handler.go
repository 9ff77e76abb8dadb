package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"uniagendas/internal/appointment/models"
	"uniagendas/internal/appointment/service"
	id "uniagendas/pkg/domain"
	dErrors "uniagendas/pkg/domain-errors"
	"uniagendas/pkg/platform/httputil"
	"uniagendas/pkg/requestcontext"
)

// Service defines the appointment operations the handler needs.
type Service interface {
	Schedule(ctx context.Context, cmd *service.ScheduleCommand) (*models.Appointment, error)
	Get(ctx context.Context, appointmentID id.AppointmentID) (*models.Appointment, error)
	GetByProtocol(ctx context.Context, code string) (*models.Appointment, error)
	ListByPatient(ctx context.Context, patientID id.PatientID) ([]*models.Appointment, error)
	ListByDoctor(ctx context.Context, q service.DoctorAgendaQuery) ([]*models.Appointment, error)
	Reschedule(ctx context.Context, appointmentID id.AppointmentID, cmd *service.RescheduleCommand) (*models.Appointment, error)
	Confirm(ctx context.Context, appointmentID id.AppointmentID) (*models.Appointment, error)
	Complete(ctx context.Context, appointmentID id.AppointmentID) (*models.Appointment, error)
	Cancel(ctx context.Context, appointmentID id.AppointmentID) (*models.Appointment, error)
	MarkNoShow(ctx context.Context, appointmentID id.AppointmentID) (*models.Appointment, error)
}

type Handler struct {
	service  Service
	logger   *slog.Logger
	location *time.Location
}

// New builds the handler. loc is the clinic's time zone, used for the
// display fields of responses; nil means UTC.
func New(service Service, logger *slog.Logger, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{service: service, logger: logger, location: loc}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/appointments", h.HandleSchedule)
	r.Get("/appointments", h.HandleList)
	r.Get("/appointments/{id}", h.HandleGet)
	r.Put("/appointments/{id}", h.HandleReschedule)
	r.Post("/appointments/{id}/confirm", h.HandleConfirm)
	r.Post("/appointments/{id}/complete", h.HandleComplete)
	r.Post("/appointments/{id}/cancel", h.HandleCancel)
	r.Post("/appointments/{id}/no-show", h.HandleNoShow)
}

func (h *Handler) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.Bind[ScheduleAppointmentRequest](w, r, h.logger)
	if !ok {
		return
	}

	appt, err := h.service.Schedule(ctx, req.ToCommand())
	if err != nil {
		h.logger.ErrorContext(ctx, "schedule appointment failed",
			"error", err,
			"request_id", requestID,
			"doctor_id", req.DoctorID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, h.toResponse(ctx, appt))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	appointmentID, ok := parseAppointmentID(w, r)
	if !ok {
		return
	}

	appt, err := h.service.Get(ctx, appointmentID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get appointment failed", "error", err, "request_id", requestID, "appointment_id", appointmentID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, h.toResponse(ctx, appt))
}

// HandleList answers one of three lookups: ?protocol=, ?patient_id= or
// ?doctor_id= with an optional ?day=YYYY-MM-DD.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	query := r.URL.Query()

	switch {
	case query.Get("protocol") != "":
		code := query.Get("protocol")
		appt, err := h.service.GetByProtocol(ctx, code)
		if err != nil {
			h.logger.ErrorContext(ctx, "find appointment by protocol failed", "error", err, "request_id", requestID, "protocol", code)
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, h.toResponse(ctx, appt))

	case query.Get("patient_id") != "":
		patientID, err := id.ParsePatientID(query.Get("patient_id"))
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid patient id"))
			return
		}
		appts, err := h.service.ListByPatient(ctx, patientID)
		if err != nil {
			h.logger.ErrorContext(ctx, "list patient appointments failed", "error", err, "request_id", requestID, "patient_id", patientID)
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, h.toListResponse(ctx, appts))

	case query.Get("doctor_id") != "":
		doctorID, err := id.ParseDoctorID(query.Get("doctor_id"))
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid doctor id"))
			return
		}
		q := service.DoctorAgendaQuery{DoctorID: doctorID}
		if raw := query.Get("day"); raw != "" {
			day, err := time.Parse(dayLayout, raw)
			if err != nil {
				httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "day must be formatted as YYYY-MM-DD"))
				return
			}
			q.Day = &day
		}
		appts, err := h.service.ListByDoctor(ctx, q)
		if err != nil {
			h.logger.ErrorContext(ctx, "list doctor appointments failed", "error", err, "request_id", requestID, "doctor_id", doctorID)
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, h.toListResponse(ctx, appts))

	default:
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "one of protocol, patient_id or doctor_id is required"))
	}
}

func (h *Handler) HandleReschedule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	appointmentID, ok := parseAppointmentID(w, r)
	if !ok {
		return
	}

	req, ok := httputil.Bind[RescheduleAppointmentRequest](w, r, h.logger)
	if !ok {
		return
	}

	appt, err := h.service.Reschedule(ctx, appointmentID, req.ToCommand())
	if err != nil {
		h.logger.ErrorContext(ctx, "reschedule appointment failed", "error", err, "request_id", requestID, "appointment_id", appointmentID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, h.toResponse(ctx, appt))
}

func (h *Handler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, "confirm", h.service.Confirm)
}

func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, "complete", h.service.Complete)
}

func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, "cancel", h.service.Cancel)
}

func (h *Handler) HandleNoShow(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, "mark no-show", h.service.MarkNoShow)
}

func (h *Handler) handleTransition(w http.ResponseWriter, r *http.Request, action string, apply func(context.Context, id.AppointmentID) (*models.Appointment, error)) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	appointmentID, ok := parseAppointmentID(w, r)
	if !ok {
		return
	}

	appt, err := apply(ctx, appointmentID)
	if err != nil {
		h.logger.ErrorContext(ctx, action+" appointment failed", "error", err, "request_id", requestID, "appointment_id", appointmentID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, h.toResponse(ctx, appt))
}

func parseAppointmentID(w http.ResponseWriter, r *http.Request) (id.AppointmentID, bool) {
	appointmentID, err := id.ParseAppointmentID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid appointment id"))
		return id.AppointmentID{}, false
	}
	return appointmentID, true
}
