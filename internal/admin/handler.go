package admin

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	dErrors "uniagendas/pkg/domain-errors"
	"uniagendas/pkg/platform/audit"
	"uniagendas/pkg/platform/httputil"
	adminmw "uniagendas/pkg/platform/middleware/admin"
	"uniagendas/pkg/requestcontext"
	"uniagendas/pkg/validation"
)

const defaultEventLimit = 50

// Handler serves the operator endpoints. Routes are mounted behind the
// admin token middleware.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func New(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/stats", h.HandleGetStats)
	r.Get("/admin/audit/events", h.HandleGetRecentAuditEvents)
}

func (h *Handler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	stats, err := h.service.GetStats(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get stats",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to get stats"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, stats)
}

// HandleGetRecentAuditEvents lists audit events, newest first. ?subject=
// narrows to one appointment, patient or doctor id.
func (h *Handler) HandleGetRecentAuditEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	limit := defaultEventLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > validation.MaxBatchSize {
			httputil.WriteError(w, dErrors.Newf(dErrors.CodeBadRequest, "limit must be between 1 and %d", validation.MaxBatchSize))
			return
		}
		limit = parsed
	}
	subject := strings.TrimSpace(r.URL.Query().Get("subject"))

	events, err := h.service.RecentEvents(ctx, subject, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get recent audit events",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to get audit events"))
		return
	}

	h.logger.InfoContext(ctx, "admin audit events retrieved",
		"request_id", requestID,
		"actor", adminmw.ActorID(ctx),
		"count", len(events),
	)

	if events == nil {
		events = []audit.Event{}
	}
	httputil.WriteJSON(w, http.StatusOK, &EventsResponse{Events: events, Total: len(events)})
}

type EventsResponse struct {
	Events []audit.Event `json:"events"`
	Total  int           `json:"total"`
}
