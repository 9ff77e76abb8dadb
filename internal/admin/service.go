// Package admin exposes operator views over the audit trail.
package admin

import (
	"context"
	"sort"

	"uniagendas/pkg/platform/audit"
	"uniagendas/pkg/requestcontext"
)

// AuditReader reads back audit events kept in process.
type AuditReader interface {
	ListRecent(ctx context.Context, limit int) ([]audit.Event, error)
	ListBySubject(ctx context.Context, subject string) ([]audit.Event, error)
}

type Service struct {
	audit AuditReader
}

func NewService(auditReader AuditReader) *Service {
	return &Service{audit: auditReader}
}

// ActionCount is the number of retained events for one action.
type ActionCount struct {
	Action string `json:"action"`
	Count  int    `json:"count"`
}

type Stats struct {
	Retained int           `json:"retained"`
	Actions  []ActionCount `json:"actions"`
	AsOf     string        `json:"as_of"`
}

// GetStats counts the retained events per action, busiest first.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	events, err := s.audit.ListRecent(ctx, 0)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, e := range events {
		counts[e.Action]++
	}
	actions := make([]ActionCount, 0, len(counts))
	for action, n := range counts {
		actions = append(actions, ActionCount{Action: action, Count: n})
	}
	sort.Slice(actions, func(i, j int) bool {
		if actions[i].Count != actions[j].Count {
			return actions[i].Count > actions[j].Count
		}
		return actions[i].Action < actions[j].Action
	})

	return &Stats{
		Retained: len(events),
		Actions:  actions,
		AsOf:     requestcontext.Now(ctx).UTC().Format("2006-01-02T15:04:05Z07:00"),
	}, nil
}

// RecentEvents returns the newest events, or every event for subject when
// one is given.
func (s *Service) RecentEvents(ctx context.Context, subject string, limit int) ([]audit.Event, error) {
	if subject == "" {
		return s.audit.ListRecent(ctx, limit)
	}
	events, err := s.audit.ListBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	return events, nil
}
