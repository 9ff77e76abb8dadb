package service

import (
	"context"
	"errors"

	patientmetrics "uniagendas/internal/patient/metrics"
	"uniagendas/internal/patient/models"
	id "uniagendas/pkg/domain"
	dErrors "uniagendas/pkg/domain-errors"
	"uniagendas/pkg/platform/audit"
	"uniagendas/pkg/platform/privacy"
	"uniagendas/pkg/platform/sentinel"
	"uniagendas/pkg/requestcontext"
	"uniagendas/pkg/taxpayer"
)

// Store defines the persistence contract. Create returns
// sentinel.ErrAlreadyUsed when the CPF is taken.
type Store interface {
	Create(ctx context.Context, patient *models.Patient) error
	Update(ctx context.Context, patient *models.Patient) error
	FindByID(ctx context.Context, patientID id.PatientID) (*models.Patient, error)
	FindByCPF(ctx context.Context, cpf string) (*models.Patient, error)
	List(ctx context.Context, limit, offset int) ([]*models.Patient, error)
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

// PatientService manages patient registration and contact data.
type PatientService struct {
	patients Store
	audit    *audit.Recorder
	metrics  *patientmetrics.Metrics
}

func NewPatientService(patients Store, opts ...Option) *PatientService {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return &PatientService{
		patients: patients,
		audit:    audit.NewRecorder(cfg.logger, cfg.emitter),
		metrics:  cfg.metrics,
	}
}

func (s *PatientService) Register(ctx context.Context, cmd *RegisterCommand) (*models.Patient, error) {
	if cmd == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	patient, err := models.NewPatient(id.NewPatientID(), cmd.FullName, cmd.CPF, cmd.Phone, cmd.Email, cmd.BirthDate, requestcontext.Now(ctx))
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, err.Error())
	}

	if err := s.patients.Create(ctx, patient); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			s.incrementDuplicateCPF()
			return nil, dErrors.New(dErrors.CodeConflict, "a patient with this CPF is already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register patient")
	}

	s.emitRegistered(ctx, models.PatientRegistered{PatientID: patient.ID, CPFHash: privacy.HashCPF(patient.CPF)})
	s.incrementRegistered()
	return patient, nil
}

func (s *PatientService) Get(ctx context.Context, patientID id.PatientID) (*models.Patient, error) {
	if err := requirePatientID(patientID); err != nil {
		return nil, err
	}
	patient, err := s.patients.FindByID(ctx, patientID)
	if err != nil {
		return nil, wrapPatientErr(err, "failed to get patient")
	}
	return patient, nil
}

// GetByCPF accepts the CPF with or without punctuation.
func (s *PatientService) GetByCPF(ctx context.Context, cpf string) (*models.Patient, error) {
	if !taxpayer.IsValid(cpf) {
		return nil, dErrors.New(dErrors.CodeValidation, "cpf must be a valid CPF")
	}
	patient, err := s.patients.FindByCPF(ctx, taxpayer.Digits(cpf))
	if err != nil {
		return nil, wrapPatientErr(err, "failed to find patient by CPF")
	}
	return patient, nil
}

func (s *PatientService) UpdateContact(ctx context.Context, patientID id.PatientID, cmd *UpdateContactCommand) (*models.Patient, error) {
	if err := requirePatientID(patientID); err != nil {
		return nil, err
	}
	if cmd == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	patient, err := s.patients.FindByID(ctx, patientID)
	if err != nil {
		return nil, wrapPatientErr(err, "failed to get patient")
	}

	changed, err := patient.UpdateContact(cmd.FullName, cmd.Phone, cmd.Email, requestcontext.Now(ctx))
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, err.Error())
	}
	if !changed {
		return patient, nil
	}
	if err := s.patients.Update(ctx, patient); err != nil {
		return nil, wrapPatientErr(err, "failed to update patient")
	}

	s.emitUpdated(ctx, models.PatientUpdated{PatientID: patient.ID})
	return patient, nil
}

func (s *PatientService) List(ctx context.Context, q ListQuery) ([]*models.Patient, error) {
	if q.Limit <= 0 {
		q.Limit = DefaultListLimit
	}
	if q.Limit > MaxListLimit {
		return nil, dErrors.Newf(dErrors.CodeValidation, "limit must be at most %d", MaxListLimit)
	}
	if q.Offset < 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "offset must not be negative")
	}
	patients, err := s.patients.List(ctx, q.Limit, q.Offset)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list patients")
	}
	return patients, nil
}

func (s *PatientService) emitRegistered(ctx context.Context, e models.PatientRegistered) {
	s.audit.Record(ctx, audit.EventPatientRegistered,
		"patient_id", e.PatientID.String(),
		"cpf_hash", e.CPFHash,
	)
}

func (s *PatientService) emitUpdated(ctx context.Context, e models.PatientUpdated) {
	s.audit.Record(ctx, audit.EventPatientUpdated, "patient_id", e.PatientID.String())
}

func (s *PatientService) incrementRegistered() {
	if s.metrics != nil {
		s.metrics.IncrementRegistered()
	}
}

func (s *PatientService) incrementDuplicateCPF() {
	if s.metrics != nil {
		s.metrics.IncrementDuplicateCPF()
	}
}

func requirePatientID(patientID id.PatientID) error {
	if patientID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "patient ID required")
	}
	return nil
}

func wrapPatientErr(err error, action string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "patient not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, action)
}
