package admin

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"uniagendas/pkg/platform/audit"
	"uniagendas/pkg/platform/audit/store/memory"
	"uniagendas/pkg/requestcontext"
)

type AdminHandlerSuite struct {
	suite.Suite
	store  *memory.InMemoryStore
	router http.Handler
}

func TestAdminHandlerSuite(t *testing.T) {
	suite.Run(t, new(AdminHandlerSuite))
}

func (s *AdminHandlerSuite) SetupTest() {
	s.store = memory.NewInMemoryStore()
	ctx := context.Background()
	for _, e := range []audit.Event{
		{Action: string(audit.EventDoctorRegistered), Subject: "doc-1"},
		{Action: string(audit.EventAppointmentScheduled), Subject: "appt-1", Protocol: "AGD482913"},
		{Action: string(audit.EventAppointmentScheduled), Subject: "appt-2", Protocol: "AGD100001"},
		{Action: string(audit.EventAppointmentConfirmed), Subject: "appt-1"},
	} {
		s.Require().NoError(s.store.Append(ctx, e))
	}

	h := New(NewService(s.store), slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.Register(r)
	s.router = r
}

func (s *AdminHandlerSuite) get(target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = req.WithContext(requestcontext.WithTime(req.Context(), time.Date(2026, 4, 15, 12, 0, 0, 0, time.UTC)))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *AdminHandlerSuite) TestRecentEvents() {
	rec := s.get("/admin/audit/events?limit=2")
	s.Equal(http.StatusOK, rec.Code)
	var resp EventsResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(2, resp.Total)
	s.Equal(string(audit.EventAppointmentConfirmed), resp.Events[0].Action)
}

func (s *AdminHandlerSuite) TestEventsBySubject() {
	rec := s.get("/admin/audit/events?subject=appt-1")
	s.Equal(http.StatusOK, rec.Code)
	var resp EventsResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(2, resp.Total)
	s.Equal("AGD482913", resp.Events[0].Protocol)

	rec = s.get("/admin/audit/events?subject=unknown")
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"events":[],"total":0}`, rec.Body.String())
}

func (s *AdminHandlerSuite) TestInvalidLimit() {
	for _, raw := range []string{"0", "abc", "101"} {
		rec := s.get("/admin/audit/events?limit=" + raw)
		s.Equal(http.StatusBadRequest, rec.Code, raw)
	}
}

func (s *AdminHandlerSuite) TestStats() {
	rec := s.get("/admin/stats")
	s.Equal(http.StatusOK, rec.Code)
	var stats Stats
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &stats))
	s.Equal(4, stats.Retained)
	s.Require().Len(stats.Actions, 3)
	s.Equal(ActionCount{Action: string(audit.EventAppointmentScheduled), Count: 2}, stats.Actions[0])
	s.Equal("2026-04-15T12:00:00Z", stats.AsOf)
}
