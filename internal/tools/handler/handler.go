// Package handler serves stateless helpers for form code: CPF checks and
// protocol previews. Previews are not reserved and may be issued later to
// somebody else.
package handler

import (
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"

	dErrors "uniagendas/pkg/domain-errors"
	"uniagendas/pkg/platform/httputil"
	"uniagendas/pkg/protocol"
	"uniagendas/pkg/taxpayer"
)

// Generator produces protocol previews.
type Generator interface {
	Generate(category protocol.Category) string
	GenerateDated(prefix string) string
}

var prefixPattern = regexp.MustCompile(`^[A-Z]{1,8}$`)

type Handler struct {
	generator Generator
	logger    *slog.Logger
}

func New(generator Generator, logger *slog.Logger) *Handler {
	return &Handler{generator: generator, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/tools/taxpayer/validate", h.HandleValidateCPF)
	r.Post("/tools/taxpayer/validate/batch", h.HandleValidateCPFBatch)
	r.Post("/tools/taxpayer/format", h.HandleFormatCPF)
	r.Post("/tools/protocols", h.HandlePreviewProtocol)
	r.Get("/tools/protocols/dated", h.HandlePreviewDated)
}

// HandleValidateCPF reports whether a CPF passes the check digits. The
// formatted rendering is only returned for valid input.
func (h *Handler) HandleValidateCPF(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Bind[CPFRequest](w, r, h.logger)
	if !ok {
		return
	}

	httputil.WriteJSON(w, http.StatusOK, checkCPF(req.CPF))
}

func (h *Handler) HandleValidateCPFBatch(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Bind[CPFBatchRequest](w, r, h.logger)
	if !ok {
		return
	}

	resp := &CPFBatchResponse{Results: make([]CPFCheckResponse, 0, len(req.Cpfs))}
	for _, raw := range req.Cpfs {
		result := checkCPF(raw)
		if result.Valid {
			resp.ValidCount++
		}
		resp.Results = append(resp.Results, *result)
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleFormatCPF(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Bind[CPFRequest](w, r, h.logger)
	if !ok {
		return
	}

	httputil.WriteJSON(w, http.StatusOK, &CPFFormatResponse{Formatted: taxpayer.Format(req.CPF)})
}

// HandlePreviewProtocol generates a category-tagged code. Unknown
// categories produce an attendance code.
func (h *Handler) HandlePreviewProtocol(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Bind[ProtocolPreviewRequest](w, r, h.logger)
	if !ok {
		return
	}

	category, _ := protocol.ParseCategory(req.Category)
	httputil.WriteJSON(w, http.StatusOK, &ProtocolPreviewResponse{
		Protocol: h.generator.Generate(category),
		Category: category.String(),
	})
}

func (h *Handler) HandlePreviewDated(w http.ResponseWriter, r *http.Request) {
	prefix := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("prefix")))
	if prefix == "" {
		prefix = protocol.DefaultDatedPrefix
	}
	if !prefixPattern.MatchString(prefix) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "prefix must be 1 to 8 letters"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, &ProtocolPreviewResponse{
		Protocol: h.generator.GenerateDated(prefix),
	})
}

func checkCPF(raw string) *CPFCheckResponse {
	resp := &CPFCheckResponse{Valid: taxpayer.IsValid(raw)}
	if resp.Valid {
		resp.Formatted = taxpayer.Format(raw)
	}
	return resp
}
