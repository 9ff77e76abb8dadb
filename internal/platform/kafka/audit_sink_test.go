package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "uniagendas/pkg/platform/audit"
)

type recordingProducer struct {
	messages []*Message
}

func (p *recordingProducer) Produce(_ context.Context, msg *Message) error {
	p.messages = append(p.messages, msg)
	return nil
}

func TestAuditSinkRoundTrip(t *testing.T) {
	producer := &recordingProducer{}
	sink := NewAuditSink(producer, "uniagendas.appointments")

	event := audit.Event{
		Timestamp: time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC),
		Action:    string(audit.EventAppointmentConfirmed),
		Subject:   "0b7c6f1e-3f0e-4d43-9d59-0d7e2b1d9a11",
		Protocol:  "AGD104233",
		RequestID: "req-1",
	}
	require.NoError(t, sink.Append(context.Background(), event))

	require.Len(t, producer.messages, 1)
	msg := producer.messages[0]
	assert.Equal(t, "uniagendas.appointments", msg.Topic)
	assert.Equal(t, []byte(event.Subject), msg.Key)
	assert.Equal(t, map[string]string{
		HeaderEventType: "appointment_confirmed",
		HeaderRequestID: "req-1",
	}, msg.Headers)

	decoded, err := DecodeAuditEvent(&Received{Value: msg.Value})
	require.NoError(t, err)
	assert.Equal(t, event, decoded)
}

func TestDecodeAuditEventRejectsGarbage(t *testing.T) {
	_, err := DecodeAuditEvent(&Received{Topic: "t", Value: []byte("{")})
	assert.ErrorContains(t, err, "decode audit event at t/0@0")
}
