package httputil

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "uniagendas/pkg/domain-errors"
)

type doctorForm struct {
	FullName  string `json:"full_name"`
	Specialty string `json:"specialty"`
}

// specialtyForm only validates.
type specialtyForm struct {
	Specialty string `json:"specialty"`
}

func (f *specialtyForm) Validate() error {
	if f.Specialty == "" {
		return errors.New("specialty is required")
	}
	return nil
}

// noteForm implements every preparation hook and records the call order.
type noteForm struct {
	Notes string `json:"notes"`
	calls []string
}

func (f *noteForm) Sanitize() {
	f.calls = append(f.calls, "sanitize")
	f.Notes = strings.TrimSpace(f.Notes)
}

func (f *noteForm) Normalize() {
	f.calls = append(f.calls, "normalize")
	f.Notes = strings.ToLower(f.Notes)
}

func (f *noteForm) Validate() error {
	f.calls = append(f.calls, "validate")
	if f.Notes == "" {
		return errors.New("notes is required")
	}
	return nil
}

// protocolForm returns a domain error from Validate.
type protocolForm struct {
	Protocol string `json:"protocol"`
}

func (f *protocolForm) Validate() error {
	if f.Protocol == "" {
		return dErrors.New(dErrors.CodeBadRequest, "protocol is required")
	}
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func post(body string) (*http.Request, *httptest.ResponseRecorder) {
	return httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body)), httptest.NewRecorder()
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestBind(t *testing.T) {
	logger := discardLogger()

	t.Run("decodes a well-formed body", func(t *testing.T) {
		req, w := post(`{"full_name":"Dra. Ana","specialty":"cardiologia"}`)

		result, ok := Bind[doctorForm](w, req, logger)

		assert.True(t, ok)
		require.NotNil(t, result)
		assert.Equal(t, "Dra. Ana", result.FullName)
		assert.Equal(t, "cardiologia", result.Specialty)
	})

	rejected := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
		wantDesc   string
	}{
		{"empty body", "", http.StatusBadRequest, "bad_request", "request body is required"},
		{"malformed JSON", `{full_name}`, http.StatusBadRequest, "bad_request", "malformed JSON at offset 2"},
		{"wrong field type", `{"full_name":42}`, http.StatusBadRequest, "bad_request", "full_name has the wrong type"},
		{"trailing value", `{"full_name":"a"} {"full_name":"b"}`, http.StatusBadRequest, "bad_request", "request body must be a single JSON object"},
		{"truncated", `{"full_name":"a"`, http.StatusBadRequest, "bad_request", "invalid request body"},
		{
			"oversized body",
			`{"full_name":"` + strings.Repeat("a", 70*1024) + `"}`,
			http.StatusRequestEntityTooLarge, "payload_too_large", "request body exceeds 65536 bytes",
		},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			req, w := post(tt.body)

			result, ok := Bind[doctorForm](w, req, logger)

			assert.False(t, ok)
			assert.Nil(t, result)
			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeError(t, w)
			assert.Equal(t, tt.wantCode, body["error"])
			assert.Equal(t, tt.wantDesc, body["error_description"])
		})
	}

	t.Run("plain validation errors become validation_error", func(t *testing.T) {
		req, w := post(`{"specialty":""}`)

		result, ok := Bind[specialtyForm](w, req, logger)

		assert.False(t, ok)
		assert.Nil(t, result)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, "validation_error", body["error"])
		assert.Equal(t, "specialty is required", body["error_description"])
	})

	t.Run("domain errors keep their code", func(t *testing.T) {
		req, w := post(`{"protocol":""}`)

		_, ok := Bind[protocolForm](w, req, logger)

		assert.False(t, ok)
		body := decodeError(t, w)
		assert.Equal(t, "bad_request", body["error"])
		assert.Equal(t, "protocol is required", body["error_description"])
	})

	t.Run("runs sanitize, normalize, then validate", func(t *testing.T) {
		req, w := post(`{"notes":"  Jejum de 8h  "}`)

		result, ok := Bind[noteForm](w, req, logger)

		assert.True(t, ok)
		require.NotNil(t, result)
		assert.Equal(t, []string{"sanitize", "normalize", "validate"}, result.calls)
		assert.Equal(t, "jejum de 8h", result.Notes)
	})
}

func TestPrepare(t *testing.T) {
	assert.NoError(t, Prepare(&specialtyForm{Specialty: "dermatologia"}))
	assert.EqualError(t, Prepare(&specialtyForm{}), "specialty is required")
	assert.NoError(t, Prepare(&doctorForm{}), "types without hooks pass through")
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantDesc   string
	}{
		{"not found", dErrors.New(dErrors.CodeNotFound, "appointment not found"), http.StatusNotFound, "not_found", "appointment not found"},
		{"conflict", dErrors.New(dErrors.CodeConflict, "cpf already registered"), http.StatusConflict, "conflict", "cpf already registered"},
		{"invalid transition", dErrors.New(dErrors.CodeInvariantViolation, "cannot complete a cancelled appointment"), http.StatusConflict, "invalid_transition", "cannot complete a cancelled appointment"},
		{"rate limited", dErrors.New(dErrors.CodeRateLimited, "slow down"), http.StatusTooManyRequests, "rate_limited", "slow down"},
		{"too large", dErrors.New(dErrors.CodePayloadTooLarge, "request body exceeds 65536 bytes"), http.StatusRequestEntityTooLarge, "payload_too_large", "request body exceeds 65536 bytes"},
		{"internal hides message", dErrors.New(dErrors.CodeInternal, "pq: connection refused"), http.StatusInternalServerError, "internal_error", ""},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "internal_error", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			body := decodeError(t, w)
			assert.Equal(t, tt.wantCode, body["error"])
			assert.Equal(t, tt.wantDesc, body["error_description"])
		})
	}
}
