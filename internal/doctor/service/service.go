package service

import (
	"context"
	"errors"
	"strings"
	"time"

	doctormetrics "uniagendas/internal/doctor/metrics"
	"uniagendas/internal/doctor/models"
	id "uniagendas/pkg/domain"
	dErrors "uniagendas/pkg/domain-errors"
	"uniagendas/pkg/platform/audit"
	"uniagendas/pkg/platform/sentinel"
	"uniagendas/pkg/requestcontext"
)

// Store defines the persistence contract. Create returns
// sentinel.ErrAlreadyUsed when the CRM is taken.
type Store interface {
	Create(ctx context.Context, doctor *models.Doctor) error
	Update(ctx context.Context, doctor *models.Doctor) error
	FindByID(ctx context.Context, doctorID id.DoctorID) (*models.Doctor, error)
	// ListBySpecialty matches case-insensitively; an empty specialty lists
	// everyone. Inactive doctors are included only when asked for.
	ListBySpecialty(ctx context.Context, specialty string, includeInactive bool) ([]*models.Doctor, error)
}

type DoctorService struct {
	doctors Store
	audit   *audit.Recorder
	metrics *doctormetrics.Metrics
}

func NewDoctorService(doctors Store, opts ...Option) *DoctorService {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return &DoctorService{
		doctors: doctors,
		audit:   audit.NewRecorder(cfg.logger, cfg.emitter),
		metrics: cfg.metrics,
	}
}

func (s *DoctorService) Register(ctx context.Context, cmd *RegisterCommand) (*models.Doctor, error) {
	if cmd == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	crm := ""
	if strings.TrimSpace(cmd.CRMState) != "" && strings.TrimSpace(cmd.CRMNumber) != "" {
		crm = models.CRM(cmd.CRMState, cmd.CRMNumber)
	}
	doctor, err := models.NewDoctor(id.NewDoctorID(), cmd.FullName, cmd.Specialty, crm, requestcontext.Now(ctx))
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, err.Error())
	}

	if err := s.doctors.Create(ctx, doctor); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "a doctor with this CRM is already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register doctor")
	}

	s.emitRegistered(ctx, models.DoctorRegistered{DoctorID: doctor.ID, Specialty: doctor.Specialty})
	if s.metrics != nil {
		s.metrics.IncrementRegistered()
	}
	return doctor, nil
}

func (s *DoctorService) Get(ctx context.Context, doctorID id.DoctorID) (*models.Doctor, error) {
	if err := requireDoctorID(doctorID); err != nil {
		return nil, err
	}
	doctor, err := s.doctors.FindByID(ctx, doctorID)
	if err != nil {
		return nil, wrapDoctorErr(err, "failed to get doctor")
	}
	return doctor, nil
}

func (s *DoctorService) ListBySpecialty(ctx context.Context, specialty string, includeInactive bool) ([]*models.Doctor, error) {
	doctors, err := s.doctors.ListBySpecialty(ctx, strings.TrimSpace(specialty), includeInactive)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list doctors")
	}
	return doctors, nil
}

// Deactivate returns the updated doctor, or a conflict when the doctor is
// already inactive.
func (s *DoctorService) Deactivate(ctx context.Context, doctorID id.DoctorID) (*models.Doctor, error) {
	doctor, err := s.transition(ctx, doctorID, (*models.Doctor).Deactivate, "doctor is already inactive")
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, audit.EventDoctorDeactivated, "doctor_id", doctor.ID.String())
	if s.metrics != nil {
		s.metrics.IncrementDeactivated()
	}
	return doctor, nil
}

func (s *DoctorService) Reactivate(ctx context.Context, doctorID id.DoctorID) (*models.Doctor, error) {
	doctor, err := s.transition(ctx, doctorID, (*models.Doctor).Reactivate, "doctor is already active")
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, audit.EventDoctorReactivated, "doctor_id", doctor.ID.String())
	return doctor, nil
}

func (s *DoctorService) transition(ctx context.Context, doctorID id.DoctorID, apply func(*models.Doctor, time.Time) error, conflictMsg string) (*models.Doctor, error) {
	if err := requireDoctorID(doctorID); err != nil {
		return nil, err
	}
	doctor, err := s.doctors.FindByID(ctx, doctorID)
	if err != nil {
		return nil, wrapDoctorErr(err, "failed to get doctor")
	}
	if err := apply(doctor, requestcontext.Now(ctx)); err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeConflict, conflictMsg)
		}
		return nil, err
	}
	if err := s.doctors.Update(ctx, doctor); err != nil {
		return nil, wrapDoctorErr(err, "failed to update doctor")
	}
	return doctor, nil
}

func (s *DoctorService) emitRegistered(ctx context.Context, e models.DoctorRegistered) {
	s.audit.Record(ctx, audit.EventDoctorRegistered,
		"doctor_id", e.DoctorID.String(),
		"specialty", e.Specialty,
	)
}

func requireDoctorID(doctorID id.DoctorID) error {
	if doctorID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "doctor ID required")
	}
	return nil
}

func wrapDoctorErr(err error, action string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "doctor not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, action)
}
