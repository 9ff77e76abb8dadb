package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	dErrors "uniagendas/pkg/domain-errors"
)

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent, so an encoding failure cannot change the status.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError translates domain errors into HTTP status codes and error bodies.
// A passed deadline anywhere in the chain is reported as a timeout.
func WriteError(w http.ResponseWriter, err error) {
	if errors.Is(err, context.DeadlineExceeded) && !dErrors.HasCode(err, dErrors.CodeTimeout) {
		err = &dErrors.Error{Code: dErrors.CodeTimeout, Message: "request timed out", Err: err}
	}
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		response := map[string]string{
			"error": DomainCodeToHTTPCode(domainErr.Code),
		}
		if domainErr.Message != "" && domainErr.Code != dErrors.CodeInternal {
			response["error_description"] = domainErr.Message
		}
		WriteJSON(w, DomainCodeToHTTPStatus(domainErr.Code), response)
		return
	}

	WriteJSON(w, http.StatusInternalServerError, map[string]string{
		"error": DomainCodeToHTTPCode(dErrors.CodeInternal),
	})
}

// DomainCodeToHTTPStatus translates domain error codes to HTTP status codes.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeBadRequest, dErrors.CodeValidation, dErrors.CodeInvalidInput:
		return http.StatusBadRequest
	case dErrors.CodeConflict, dErrors.CodeInvariantViolation:
		return http.StatusConflict
	case dErrors.CodeRateLimited:
		return http.StatusTooManyRequests
	case dErrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	case dErrors.CodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case dErrors.CodeUnsupportedMediaType:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

// DomainCodeToHTTPCode translates domain error codes to the JSON "error" field.
func DomainCodeToHTTPCode(code dErrors.Code) string {
	switch code {
	case dErrors.CodeNotFound:
		return "not_found"
	case dErrors.CodeBadRequest, dErrors.CodeInvalidInput:
		return "bad_request"
	case dErrors.CodeValidation:
		return "validation_error"
	case dErrors.CodeInvariantViolation:
		return "invalid_transition"
	case dErrors.CodeConflict:
		return "conflict"
	case dErrors.CodeRateLimited:
		return "rate_limited"
	case dErrors.CodeUnavailable:
		return "unavailable"
	case dErrors.CodeTimeout:
		return "timeout"
	case dErrors.CodePayloadTooLarge:
		return "payload_too_large"
	case dErrors.CodeUnsupportedMediaType:
		return "invalid_content_type"
	default:
		return "internal_error"
	}
}
