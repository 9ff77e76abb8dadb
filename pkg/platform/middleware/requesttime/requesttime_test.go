package requesttime

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"uniagendas/pkg/requestcontext"
)

func TestWithClock(t *testing.T) {
	fixed := time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)
	calls := 0
	clock := func() time.Time {
		calls++
		return fixed.Add(time.Duration(calls) * time.Hour)
	}

	var first, second time.Time
	h := WithClock(clock)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		first = requestcontext.Now(r.Context())
		second = requestcontext.Now(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, 1, calls, "clock read once per request")
	assert.Equal(t, fixed.Add(time.Hour), first)
	assert.Equal(t, first, second)
}

func TestMiddleware(t *testing.T) {
	var got time.Time
	before := time.Now()
	Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = requestcontext.Now(r.Context())
	})).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.False(t, got.Before(before))
}
