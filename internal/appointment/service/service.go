package service

import (
	"context"
	"errors"
	"strings"
	"time"

	appointmentmetrics "uniagendas/internal/appointment/metrics"
	"uniagendas/internal/appointment/models"
	doctormodels "uniagendas/internal/doctor/models"
	patientmodels "uniagendas/internal/patient/models"
	"uniagendas/internal/platform/tracer"
	id "uniagendas/pkg/domain"
	dErrors "uniagendas/pkg/domain-errors"
	"uniagendas/pkg/platform/audit"
	"uniagendas/pkg/platform/sentinel"
	"uniagendas/pkg/platform/sync"
	"uniagendas/pkg/protocol"
	"uniagendas/pkg/requestcontext"
	"uniagendas/pkg/validation"
)

// Store defines the persistence contract for appointments.
type Store interface {
	// Create returns sentinel.ErrAlreadyUsed when a protocol is taken.
	Create(ctx context.Context, a *models.Appointment) error
	// UpdateIfStatus writes a only while the stored status still equals
	// from, returning sentinel.ErrConflict otherwise.
	UpdateIfStatus(ctx context.Context, a *models.Appointment, from models.Status) error
	FindByID(ctx context.Context, appointmentID id.AppointmentID) (*models.Appointment, error)
	FindByProtocol(ctx context.Context, code string) (*models.Appointment, error)
	ListByPatient(ctx context.Context, patientID id.PatientID) ([]*models.Appointment, error)
	// ListByDoctor returns appointments starting in [from, to). Zero bounds
	// are open.
	ListByDoctor(ctx context.Context, doctorID id.DoctorID, from, to time.Time) ([]*models.Appointment, error)
}

// PatientDirectory resolves the patient an appointment is booked for.
type PatientDirectory interface {
	Get(ctx context.Context, patientID id.PatientID) (*patientmodels.Patient, error)
}

// DoctorDirectory resolves the doctor whose agenda is booked.
type DoctorDirectory interface {
	Get(ctx context.Context, doctorID id.DoctorID) (*doctormodels.Doctor, error)
}

// ProtocolIssuer hands out reserved protocol codes.
type ProtocolIssuer interface {
	Issue(ctx context.Context, category protocol.Category) (string, error)
	IssueDated(ctx context.Context) (string, error)
	Release(ctx context.Context, code string)
}

type AppointmentService struct {
	appointments Store
	patients     PatientDirectory
	doctors      DoctorDirectory
	issuer       ProtocolIssuer
	audit        *audit.Recorder
	metrics      *appointmentmetrics.Metrics
	tracer       tracer.Tracer
	location     *time.Location

	// agenda serializes bookings per doctor so overlap checks and inserts
	// happen atomically within this process. records serializes status
	// changes per appointment. When both are held, agenda is taken first.
	agenda  *sync.ShardedMutex
	records *sync.ShardedMutex
}

func NewAppointmentService(appointments Store, patients PatientDirectory, doctors DoctorDirectory, issuer ProtocolIssuer, opts ...Option) *AppointmentService {
	cfg := &serviceConfig{
		tracer:   tracer.Noop,
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return &AppointmentService{
		appointments: appointments,
		patients:     patients,
		doctors:      doctors,
		issuer:       issuer,
		audit:        audit.NewRecorder(cfg.logger, cfg.emitter),
		metrics:      cfg.metrics,
		tracer:       cfg.tracer,
		location:     cfg.location,
		agenda:       sync.NewShardedMutex(),
		records:      sync.NewShardedMutex(),
	}
}

// Schedule books an appointment. It issues an AGD protocol and, for
// procedures, an AUT authorization protocol. Protocols are released again
// when the booking cannot be saved.
func (s *AppointmentService) Schedule(ctx context.Context, cmd *ScheduleCommand) (appt *models.Appointment, err error) {
	if cmd == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if s.metrics != nil {
		defer s.metrics.ObserveScheduleDuration(time.Now())
	}
	ctx, span := s.tracer.Start(ctx, tracer.SpanAppointmentSchedule)
	defer func() { span.End(err) }()

	now := requestcontext.Now(ctx)
	details := models.Details{
		ScheduledAt:     cmd.ScheduledAt,
		DurationMinutes: cmd.DurationMinutes,
		Type:            models.Type(strings.ToLower(strings.TrimSpace(cmd.Type))),
		Location:        cmd.Location,
		Notes:           cmd.Notes,
	}
	if !details.Type.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "unknown appointment type %q", cmd.Type)
	}
	if err := details.Validate(now); err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, err.Error())
	}
	if err := s.requireParticipants(ctx, cmd.PatientID, cmd.DoctorID); err != nil {
		return nil, err
	}

	agenda := s.agenda.For(cmd.DoctorID.String())
	agenda.Lock()
	defer agenda.Unlock()

	candidate := &models.Appointment{
		ScheduledAt:     details.ScheduledAt,
		DurationMinutes: details.DurationMinutes,
	}
	if err := s.checkAgenda(ctx, cmd.DoctorID, candidate, id.AppointmentID{}); err != nil {
		return nil, err
	}

	code, authorization, err := s.issueBookingProtocols(ctx, details.Type)
	if err != nil {
		return nil, err
	}
	appt, err = models.NewAppointment(id.NewAppointmentID(), code, cmd.PatientID, cmd.DoctorID, details, now)
	if err != nil {
		s.release(ctx, code, authorization)
		return nil, dErrors.New(dErrors.CodeValidation, err.Error())
	}
	appt.AuthorizationProtocol = authorization

	if err := s.appointments.Create(ctx, appt); err != nil {
		s.release(ctx, code, authorization)
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "appointment protocol already in use")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save appointment")
	}

	span.SetAttributes(
		tracer.Stringer(tracer.AttrAppointmentID, appt.ID),
		tracer.Stringer(tracer.AttrDoctorID, appt.DoctorID),
		tracer.String(tracer.AttrProtocol, appt.Protocol),
	)
	s.emitScheduled(ctx, models.AppointmentScheduled{
		AppointmentID:         appt.ID,
		Protocol:              appt.Protocol,
		PatientID:             appt.PatientID,
		DoctorID:              appt.DoctorID,
		Type:                  appt.Type,
		AuthorizationProtocol: appt.AuthorizationProtocol,
	})
	if s.metrics != nil {
		s.metrics.IncrementScheduled(string(appt.Type))
	}
	return appt, nil
}

func (s *AppointmentService) requireParticipants(ctx context.Context, patientID id.PatientID, doctorID id.DoctorID) error {
	if patientID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "patient ID required")
	}
	if doctorID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "doctor ID required")
	}
	if _, err := s.patients.Get(ctx, patientID); err != nil {
		return err
	}
	doctor, err := s.doctors.Get(ctx, doctorID)
	if err != nil {
		return err
	}
	if !doctor.Active {
		return dErrors.New(dErrors.CodeConflict, "doctor is not accepting appointments")
	}
	return nil
}

// checkAgenda rejects a slot that overlaps an open appointment of the same
// doctor. skip excludes the appointment being rescheduled.
func (s *AppointmentService) checkAgenda(ctx context.Context, doctorID id.DoctorID, candidate *models.Appointment, skip id.AppointmentID) error {
	from := candidate.ScheduledAt.Add(-validation.MaxDurationMinutes * time.Minute)
	existing, err := s.appointments.ListByDoctor(ctx, doctorID, from, candidate.EndsAt())
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load doctor agenda")
	}
	for _, other := range existing {
		if other.ID == skip || !other.Status.IsOpen() {
			continue
		}
		if candidate.Overlaps(other) {
			if s.metrics != nil {
				s.metrics.IncrementAgendaConflict()
			}
			return dErrors.Newf(dErrors.CodeConflict, "doctor already has appointment %s at this time", other.Protocol)
		}
	}
	return nil
}

func (s *AppointmentService) issueBookingProtocols(ctx context.Context, t models.Type) (code, authorization string, err error) {
	code, err = s.issuer.Issue(ctx, protocol.CategoryAppointment)
	if err != nil {
		return "", "", err
	}
	if t.RequiresAuthorization() {
		authorization, err = s.issuer.Issue(ctx, protocol.CategoryAuthorization)
		if err != nil {
			s.release(ctx, code)
			return "", "", err
		}
	}
	return code, authorization, nil
}

func (s *AppointmentService) release(ctx context.Context, codes ...string) {
	for _, code := range codes {
		if code != "" {
			s.issuer.Release(ctx, code)
		}
	}
}

func (s *AppointmentService) Get(ctx context.Context, appointmentID id.AppointmentID) (*models.Appointment, error) {
	if err := requireAppointmentID(appointmentID); err != nil {
		return nil, err
	}
	appt, err := s.appointments.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, wrapAppointmentErr(err, "failed to get appointment")
	}
	return appt, nil
}

// GetByProtocol looks an appointment up by its AGD code. Codes are matched
// case-insensitively.
func (s *AppointmentService) GetByProtocol(ctx context.Context, code string) (*models.Appointment, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	category, _, err := protocol.Parse(code)
	if err != nil || category != protocol.CategoryAppointment {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid appointment protocol")
	}
	appt, err := s.appointments.FindByProtocol(ctx, code)
	if err != nil {
		return nil, wrapAppointmentErr(err, "failed to get appointment")
	}
	return appt, nil
}

func (s *AppointmentService) ListByPatient(ctx context.Context, patientID id.PatientID) ([]*models.Appointment, error) {
	if patientID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "patient ID required")
	}
	appts, err := s.appointments.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list appointments")
	}
	return appts, nil
}

func (s *AppointmentService) ListByDoctor(ctx context.Context, q DoctorAgendaQuery) ([]*models.Appointment, error) {
	if q.DoctorID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "doctor ID required")
	}
	var from, to time.Time
	if q.Day != nil {
		y, m, d := q.Day.Date()
		from = time.Date(y, m, d, 0, 0, 0, 0, s.location)
		to = from.AddDate(0, 0, 1)
	}
	appts, err := s.appointments.ListByDoctor(ctx, q.DoctorID, from, to)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list appointments")
	}
	return appts, nil
}

// Reschedule moves an open appointment to a new slot and updates its
// location and notes.
func (s *AppointmentService) Reschedule(ctx context.Context, appointmentID id.AppointmentID, cmd *RescheduleCommand) (appt *models.Appointment, err error) {
	if err := requireAppointmentID(appointmentID); err != nil {
		return nil, err
	}
	if cmd == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	ctx, span := s.tracer.Start(ctx, tracer.SpanAppointmentReschedule,
		tracer.Stringer(tracer.AttrAppointmentID, appointmentID))
	defer func() { span.End(err) }()

	current, err := s.appointments.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, wrapAppointmentErr(err, "failed to get appointment")
	}

	agenda := s.agenda.For(current.DoctorID.String())
	agenda.Lock()
	defer agenda.Unlock()
	record := s.records.For(appointmentID.String())
	record.Lock()
	defer record.Unlock()

	appt, err = s.appointments.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, wrapAppointmentErr(err, "failed to get appointment")
	}
	err = appt.Reschedule(models.Details{
		ScheduledAt:     cmd.ScheduledAt,
		DurationMinutes: cmd.DurationMinutes,
		Location:        cmd.Location,
		Notes:           cmd.Notes,
	}, requestcontext.Now(ctx))
	if err != nil {
		if appt.Status.IsOpen() {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}
	if err := s.checkAgenda(ctx, appt.DoctorID, appt, appt.ID); err != nil {
		return nil, err
	}
	if err := s.appointments.UpdateIfStatus(ctx, appt, appt.Status); err != nil {
		return nil, wrapUpdateErr(err)
	}

	s.audit.Record(ctx, audit.EventAppointmentRescheduled,
		"appointment_id", appt.ID.String(),
		"protocol", appt.Protocol,
		"scheduled_at", appt.ScheduledAt.Format(time.RFC3339),
		"duration_minutes", appt.DurationMinutes,
	)
	return appt, nil
}

// Confirm moves a scheduled appointment to confirmed and attaches a dated
// confirmation receipt.
func (s *AppointmentService) Confirm(ctx context.Context, appointmentID id.AppointmentID) (*models.Appointment, error) {
	return s.transition(ctx, appointmentID, transitionSpec{
		target: models.StatusConfirmed,
		event:  audit.EventAppointmentConfirmed,
		issue:  s.issuer.IssueDated,
		apply: func(a *models.Appointment, ref string, now time.Time) error {
			return a.Confirm(ref, now)
		},
	})
}

// Complete records the visit and attaches an ATD attendance protocol.
func (s *AppointmentService) Complete(ctx context.Context, appointmentID id.AppointmentID) (*models.Appointment, error) {
	return s.transition(ctx, appointmentID, transitionSpec{
		target: models.StatusCompleted,
		event:  audit.EventAppointmentCompleted,
		issue: func(ctx context.Context) (string, error) {
			return s.issuer.Issue(ctx, protocol.CategoryAttendance)
		},
		apply: func(a *models.Appointment, ref string, now time.Time) error {
			return a.Complete(ref, now)
		},
	})
}

func (s *AppointmentService) Cancel(ctx context.Context, appointmentID id.AppointmentID) (*models.Appointment, error) {
	return s.transition(ctx, appointmentID, transitionSpec{
		target: models.StatusCancelled,
		event:  audit.EventAppointmentCancelled,
		apply: func(a *models.Appointment, _ string, now time.Time) error {
			return a.Cancel(now)
		},
	})
}

func (s *AppointmentService) MarkNoShow(ctx context.Context, appointmentID id.AppointmentID) (*models.Appointment, error) {
	return s.transition(ctx, appointmentID, transitionSpec{
		target: models.StatusNoShow,
		event:  audit.EventAppointmentNoShow,
		apply: func(a *models.Appointment, _ string, now time.Time) error {
			return a.MarkNoShow(now)
		},
	})
}

type transitionSpec struct {
	target models.Status
	event  audit.Action
	// issue, when set, produces the reference the transition records.
	issue func(ctx context.Context) (string, error)
	apply func(a *models.Appointment, ref string, now time.Time) error
}

func (s *AppointmentService) transition(ctx context.Context, appointmentID id.AppointmentID, spec transitionSpec) (appt *models.Appointment, err error) {
	if err := requireAppointmentID(appointmentID); err != nil {
		return nil, err
	}
	ctx, span := s.tracer.Start(ctx, tracer.SpanAppointmentTransition,
		tracer.Stringer(tracer.AttrAppointmentID, appointmentID),
		tracer.String(tracer.AttrToStatus, spec.target.String()),
	)
	defer func() { span.End(err) }()

	record := s.records.For(appointmentID.String())
	record.Lock()
	defer record.Unlock()

	appt, err = s.appointments.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, wrapAppointmentErr(err, "failed to get appointment")
	}
	from := appt.Status
	span.SetAttributes(tracer.Stringer(tracer.AttrFromStatus, from))
	if err := appt.CheckTransition(spec.target); err != nil {
		return nil, err
	}

	var ref string
	if spec.issue != nil {
		if ref, err = spec.issue(ctx); err != nil {
			return nil, err
		}
	}
	if err := spec.apply(appt, ref, requestcontext.Now(ctx)); err != nil {
		s.release(ctx, ref)
		return nil, err
	}
	if err := s.appointments.UpdateIfStatus(ctx, appt, from); err != nil {
		s.release(ctx, ref)
		return nil, wrapUpdateErr(err)
	}

	s.emitStatusChanged(ctx, spec.event, models.StatusChanged{
		AppointmentID: appt.ID,
		Protocol:      appt.Protocol,
		From:          from,
		To:            appt.Status,
		Reference:     ref,
	})
	if s.metrics != nil {
		s.metrics.IncrementTransition(from.String(), appt.Status.String())
	}
	return appt, nil
}

func (s *AppointmentService) emitScheduled(ctx context.Context, e models.AppointmentScheduled) {
	attrs := []any{
		"appointment_id", e.AppointmentID.String(),
		"protocol", e.Protocol,
		"patient_id", e.PatientID.String(),
		"doctor_id", e.DoctorID.String(),
		"type", string(e.Type),
	}
	if e.AuthorizationProtocol != "" {
		attrs = append(attrs, "authorization_protocol", e.AuthorizationProtocol)
	}
	s.audit.Record(ctx, audit.EventAppointmentScheduled, attrs...)
}

func (s *AppointmentService) emitStatusChanged(ctx context.Context, event audit.Action, e models.StatusChanged) {
	attrs := []any{
		"appointment_id", e.AppointmentID.String(),
		"protocol", e.Protocol,
		"from", e.From.String(),
		"to", e.To.String(),
	}
	if e.Reference != "" {
		attrs = append(attrs, "reference", e.Reference)
	}
	s.audit.Record(ctx, event, attrs...)
}

func requireAppointmentID(appointmentID id.AppointmentID) error {
	if appointmentID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "appointment ID required")
	}
	return nil
}

func wrapAppointmentErr(err error, action string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "appointment not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, action)
}

func wrapUpdateErr(err error) error {
	switch {
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "appointment was changed by another request")
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return dErrors.New(dErrors.CodeConflict, "appointment protocol already in use")
	default:
		return wrapAppointmentErr(err, "failed to update appointment")
	}
}
