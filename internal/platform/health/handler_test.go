package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h *Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	r := chi.NewRouter()
	h.Register(r)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestLiveness(t *testing.T) {
	w, body := serve(t, New("test"), "/health/live")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alive", body["status"])
}

func TestReadiness(t *testing.T) {
	t.Run("ready without checks", func(t *testing.T) {
		w, body := serve(t, New("test"), "/health/ready")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ready", body["status"])
	})

	t.Run("required dependency down", func(t *testing.T) {
		h := New("test")
		h.RegisterCheck("database", func(context.Context) error { return errors.New("connection refused") })
		h.RegisterCheck("redis", func(context.Context) error { return nil }, Optional())

		w, body := serve(t, h, "/health/ready")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "not_ready", body["status"])
		checks := body["checks"].(map[string]any)
		database := checks["database"].(map[string]any)
		assert.Equal(t, "down", database["status"])
		assert.Equal(t, "connection refused", database["error"])
		assert.Equal(t, "up", checks["redis"].(map[string]any)["status"])
	})

	t.Run("optional dependency down degrades", func(t *testing.T) {
		h := New("test")
		h.RegisterCheck("database", func(context.Context) error { return nil })
		h.RegisterCheck("redis", func(context.Context) error { return errors.New("i/o timeout") }, Optional())

		w, body := serve(t, h, "/health/ready")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "degraded", body["status"])
		redis := body["checks"].(map[string]any)["redis"].(map[string]any)
		assert.Equal(t, true, redis["optional"])
		assert.Equal(t, "down", redis["status"])
	})

	t.Run("re-registering replaces the check", func(t *testing.T) {
		h := New("test")
		h.RegisterCheck("kafka", func(context.Context) error { return errors.New("no brokers") })
		h.RegisterCheck("kafka", func(context.Context) error { return nil })

		w, body := serve(t, h, "/health/ready")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, body["checks"], 1)
	})

	t.Run("checks receive a deadline", func(t *testing.T) {
		h := New("test")
		var hasDeadline bool
		h.RegisterCheck("database", func(ctx context.Context) error {
			_, hasDeadline = ctx.Deadline()
			return nil
		})
		serve(t, h, "/health/ready")
		assert.True(t, hasDeadline)
	})
}

func TestStatus(t *testing.T) {
	w, body := serve(t, New("staging"), "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "staging", body["environment"])
	assert.Equal(t, Version, body["version"])
}
