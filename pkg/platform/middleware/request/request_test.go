package request

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uniagendas/pkg/requestcontext"
)

func okHandler(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestRequestID(t *testing.T) {
	serve := func(header string) (string, *httptest.ResponseRecorder) {
		var captured string
		h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured = requestcontext.RequestID(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/appointments", nil)
		if header != "" {
			req.Header.Set("X-Request-ID", header)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return captured, w
	}

	t.Run("mints a UUID when absent", func(t *testing.T) {
		id, w := serve("")
		assert.Len(t, id, 36)
		assert.Equal(t, id, w.Header().Get("X-Request-ID"))
	})

	t.Run("echoes a well-formed client ID", func(t *testing.T) {
		id, w := serve("front.agenda_42-a")
		assert.Equal(t, "front.agenda_42-a", id)
		assert.Equal(t, "front.agenda_42-a", w.Header().Get("X-Request-ID"))
	})

	t.Run("replaces unsafe IDs", func(t *testing.T) {
		for _, bad := range []string{
			"line\ninjected",
			"has space",
			`quo"te`,
			"semi;colon",
			strings.Repeat("a", MaxRequestIDLength+1),
		} {
			id, _ := serve(bad)
			assert.NotEqual(t, bad, id)
			assert.Len(t, id, 36, "input %q", bad)
		}
	})

	t.Run("accepts exactly the maximum length", func(t *testing.T) {
		long := strings.Repeat("a", MaxRequestIDLength)
		id, _ := serve(long)
		assert.Equal(t, long, id)
	})
}

func TestRecovery(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := Recovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("nil doctor")
	}))

	w := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/doctors/x", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal_error"}`, w.Body.String())
}

func TestContentTypeJSON(t *testing.T) {
	h := ContentTypeJSON(http.HandlerFunc(okHandler))

	tests := []struct {
		name        string
		method      string
		contentType string
		want        int
	}{
		{"json post", http.MethodPost, "application/json", http.StatusOK},
		{"json with charset", http.MethodPut, "application/json; charset=utf-8", http.StatusOK},
		{"missing header", http.MethodPost, "", http.StatusOK},
		{"form post", http.MethodPost, "application/x-www-form-urlencoded", http.StatusUnsupportedMediaType},
		{"get ignores header", http.MethodGet, "text/plain", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/patients", strings.NewReader("{}"))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusUnsupportedMediaType {
				assert.JSONEq(t, `{"error":"invalid_content_type","error_description":"Content-Type must be application/json"}`, w.Body.String())
			}
		})
	}
}

func TestBodyLimit(t *testing.T) {
	var readErr error
	h := BodyLimit(100)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	t.Run("at the limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 100))))
		assert.NoError(t, readErr)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("declared length over the limit", func(t *testing.T) {
		readErr = nil
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 101))))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.JSONEq(t, `{"error":"payload_too_large","error_description":"request body exceeds 100 bytes"}`, w.Body.String())
	})

	t.Run("chunked body over the limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 101)))
		req.ContentLength = -1
		h.ServeHTTP(httptest.NewRecorder(), req)
		var maxErr *http.MaxBytesError
		assert.ErrorAs(t, readErr, &maxErr)
	})
}

func TestTimeout(t *testing.T) {
	t.Run("silent handler past its deadline gets 504", func(t *testing.T) {
		h := Timeout(10 * time.Millisecond)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/appointments", nil))
		assert.Equal(t, http.StatusGatewayTimeout, w.Code)
		assert.JSONEq(t, `{"error":"timeout","error_description":"request timed out"}`, w.Body.String())
	})

	t.Run("handler that answered keeps its response", func(t *testing.T) {
		h := Timeout(10 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusAccepted)
			<-r.Context().Done()
		}))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/appointments", nil))
		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Empty(t, w.Body.String())
	})
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	status := http.StatusOK
	h := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	}))

	levelFor := func(path string, code int) string {
		buf.Reset()
		status = code
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
		if buf.Len() == 0 {
			return ""
		}
		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		return line["level"].(string)
	}

	assert.Equal(t, "INFO", levelFor("/doctors", http.StatusOK))
	assert.Equal(t, "WARN", levelFor("/doctors", http.StatusNotFound))
	assert.Equal(t, "ERROR", levelFor("/doctors", http.StatusServiceUnavailable))
	assert.Equal(t, "", levelFor("/health/ready", http.StatusOK))
	assert.Equal(t, "ERROR", levelFor("/health/ready", http.StatusServiceUnavailable))
}

func TestInstrument(t *testing.T) {
	m := NewMetricsWith(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(Instrument(m))
	r.Get("/appointments/{id}", okHandler)

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/appointments/"+id, nil))
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues(http.MethodGet, "/appointments/{id}", "200")))
}
