package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingStore struct {
	events []Event
	err    error
}

func (s *recordingStore) Append(_ context.Context, event Event) error {
	s.events = append(s.events, event)
	return s.err
}

func TestTee(t *testing.T) {
	broker := &recordingStore{err: errors.New("broker down")}
	local := &recordingStore{}

	err := Tee{broker, local}.Append(context.Background(), Event{Action: string(EventAppointmentScheduled)})

	assert.ErrorContains(t, err, "broker down")
	assert.Len(t, broker.events, 1)
	assert.Len(t, local.events, 1, "a failing store must not starve the next one")
}
