package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "uniagendas/pkg/domain-errors"
	"uniagendas/pkg/requestcontext"
	"uniagendas/pkg/validation"
)

// Sanitizer trims or strips client input before anything else looks at it.
type Sanitizer interface {
	Sanitize()
}

// Normalizer canonicalises input, e.g. lower-casing enum values.
type Normalizer interface {
	Normalize()
}

// Validator rejects input that cannot be served.
type Validator interface {
	Validate() error
}

// Bind decodes the JSON body into a T and runs its Sanitize, Normalize and
// Validate hooks in that order. On failure it writes the error response and
// returns false; the handler only has to return.
//
//	req, ok := httputil.Bind[RegisterPatientRequest](w, r, h.logger)
//	if !ok {
//		return
//	}
func Bind[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*T, bool) {
	ctx := r.Context()
	req := new(T)
	if err := decodeBody(w, r, req); err != nil {
		logger.WarnContext(ctx, "rejected request body",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		WriteError(w, err)
		return nil, false
	}

	if err := Prepare(req); err != nil {
		logger.WarnContext(ctx, "invalid request",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		var domainErr *dErrors.Error
		if !errors.As(err, &domainErr) {
			err = dErrors.New(dErrors.CodeValidation, err.Error())
		}
		WriteError(w, err)
		return nil, false
	}
	return req, true
}

// Prepare runs whichever preparation hooks req implements.
func Prepare(req any) error {
	if s, ok := req.(Sanitizer); ok {
		s.Sanitize()
	}
	if n, ok := req.(Normalizer); ok {
		n.Normalize()
	}
	if v, ok := req.(Validator); ok {
		return v.Validate()
	}
	return nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, validation.MaxBodySize))
	err := dec.Decode(dst)
	if err == nil {
		if dec.More() {
			return dErrors.New(dErrors.CodeBadRequest, "request body must be a single JSON object")
		}
		return nil
	}

	var (
		tooLarge  *http.MaxBytesError
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.Is(err, io.EOF):
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	case errors.As(err, &tooLarge):
		return dErrors.Newf(dErrors.CodePayloadTooLarge, "request body exceeds %d bytes", tooLarge.Limit)
	case errors.As(err, &syntaxErr):
		return dErrors.Newf(dErrors.CodeBadRequest, "malformed JSON at offset %d", syntaxErr.Offset)
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return dErrors.Newf(dErrors.CodeBadRequest, "%s has the wrong type", typeErr.Field)
	default:
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request body")
	}
}
