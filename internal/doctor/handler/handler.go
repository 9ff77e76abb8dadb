package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"uniagendas/internal/doctor/models"
	"uniagendas/internal/doctor/service"
	id "uniagendas/pkg/domain"
	dErrors "uniagendas/pkg/domain-errors"
	"uniagendas/pkg/platform/httputil"
	"uniagendas/pkg/requestcontext"
)

// Service defines the doctor operations the handler needs.
type Service interface {
	Register(ctx context.Context, cmd *service.RegisterCommand) (*models.Doctor, error)
	Get(ctx context.Context, doctorID id.DoctorID) (*models.Doctor, error)
	ListBySpecialty(ctx context.Context, specialty string, includeInactive bool) ([]*models.Doctor, error)
	Deactivate(ctx context.Context, doctorID id.DoctorID) (*models.Doctor, error)
	Reactivate(ctx context.Context, doctorID id.DoctorID) (*models.Doctor, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/doctors", h.HandleRegister)
	r.Get("/doctors", h.HandleList)
	r.Get("/doctors/{id}", h.HandleGet)
	r.Post("/doctors/{id}/deactivate", h.HandleDeactivate)
	r.Post("/doctors/{id}/reactivate", h.HandleReactivate)
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.Bind[RegisterDoctorRequest](w, r, h.logger)
	if !ok {
		return
	}

	doctor, err := h.service.Register(ctx, req.ToCommand())
	if err != nil {
		h.logger.ErrorContext(ctx, "register doctor failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toDoctorResponse(doctor))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	doctorID, err := id.ParseDoctorID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid doctor id"))
		return
	}

	doctor, err := h.service.Get(ctx, doctorID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get doctor failed", "error", err, "request_id", requestID, "doctor_id", doctorID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toDoctorResponse(doctor))
}

// HandleList filters by ?specialty= and hides inactive doctors unless
// ?include_inactive=true.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	query := r.URL.Query()

	includeInactive := false
	if raw := query.Get("include_inactive"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "include_inactive must be a boolean"))
			return
		}
		includeInactive = v
	}

	doctors, err := h.service.ListBySpecialty(ctx, query.Get("specialty"), includeInactive)
	if err != nil {
		h.logger.ErrorContext(ctx, "list doctors failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toDoctorListResponse(doctors))
}

func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	h.handleStatusChange(w, r, "deactivate", h.service.Deactivate)
}

func (h *Handler) HandleReactivate(w http.ResponseWriter, r *http.Request) {
	h.handleStatusChange(w, r, "reactivate", h.service.Reactivate)
}

func (h *Handler) handleStatusChange(w http.ResponseWriter, r *http.Request, action string, change func(context.Context, id.DoctorID) (*models.Doctor, error)) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	doctorID, err := id.ParseDoctorID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid doctor id"))
		return
	}

	doctor, err := change(ctx, doctorID)
	if err != nil {
		h.logger.ErrorContext(ctx, action+" doctor failed", "error", err, "request_id", requestID, "doctor_id", doctorID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toDoctorResponse(doctor))
}
