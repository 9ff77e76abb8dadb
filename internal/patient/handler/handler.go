package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"uniagendas/internal/patient/models"
	"uniagendas/internal/patient/service"
	id "uniagendas/pkg/domain"
	dErrors "uniagendas/pkg/domain-errors"
	"uniagendas/pkg/platform/httputil"
	"uniagendas/pkg/platform/privacy"
	"uniagendas/pkg/requestcontext"
)

// Service defines the patient operations the handler needs.
type Service interface {
	Register(ctx context.Context, cmd *service.RegisterCommand) (*models.Patient, error)
	Get(ctx context.Context, patientID id.PatientID) (*models.Patient, error)
	GetByCPF(ctx context.Context, cpf string) (*models.Patient, error)
	UpdateContact(ctx context.Context, patientID id.PatientID, cmd *service.UpdateContactCommand) (*models.Patient, error)
	List(ctx context.Context, q service.ListQuery) ([]*models.Patient, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/patients", h.HandleRegister)
	r.Get("/patients", h.HandleList)
	r.Get("/patients/{id}", h.HandleGet)
	r.Put("/patients/{id}", h.HandleUpdateContact)
}

// HandleRegister creates a patient record.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.Bind[RegisterPatientRequest](w, r, h.logger)
	if !ok {
		return
	}

	patient, err := h.service.Register(ctx, req.ToCommand())
	if err != nil {
		h.logger.ErrorContext(ctx, "register patient failed",
			"error", err,
			"request_id", requestID,
			"cpf", privacy.MaskCPF(req.CPF),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toPatientResponse(patient))
}

// HandleGet returns a single patient.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	patientID, err := id.ParsePatientID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid patient id"))
		return
	}

	patient, err := h.service.Get(ctx, patientID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get patient failed", "error", err, "request_id", requestID, "patient_id", patientID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toPatientResponse(patient))
}

// HandleList looks a patient up by ?cpf= or pages through all patients
// with ?limit=&offset=.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	query := r.URL.Query()

	if cpf := query.Get("cpf"); cpf != "" {
		patient, err := h.service.GetByCPF(ctx, cpf)
		if err != nil {
			h.logger.ErrorContext(ctx, "find patient by cpf failed",
				"error", err,
				"request_id", requestID,
				"cpf", privacy.MaskCPF(cpf),
			)
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, toPatientResponse(patient))
		return
	}

	limit, err := intParam(query.Get("limit"), "limit")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	offset, err := intParam(query.Get("offset"), "offset")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	patients, err := h.service.List(ctx, service.ListQuery{Limit: limit, Offset: offset})
	if err != nil {
		h.logger.ErrorContext(ctx, "list patients failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toPatientListResponse(patients))
}

// HandleUpdateContact changes name, phone or email.
func (h *Handler) HandleUpdateContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	patientID, err := id.ParsePatientID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid patient id"))
		return
	}

	req, ok := httputil.Bind[UpdateContactRequest](w, r, h.logger)
	if !ok {
		return
	}

	patient, err := h.service.UpdateContact(ctx, patientID, req.ToCommand())
	if err != nil {
		h.logger.ErrorContext(ctx, "update patient failed", "error", err, "request_id", requestID, "patient_id", patientID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toPatientResponse(patient))
}

func intParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, dErrors.Newf(dErrors.CodeBadRequest, "%s must be an integer", name)
	}
	return n, nil
}
