package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	audit "uniagendas/pkg/platform/audit"
)

// Header keys set on every audit record.
const (
	HeaderEventType = "event_type"
	HeaderRequestID = "request_id"
)

// MessageProducer is the subset of Producer the sink needs.
type MessageProducer interface {
	Produce(ctx context.Context, msg *Message) error
}

// AuditSink writes audit events to a topic as JSON, keyed by subject so all
// events for one appointment land on the same partition in order.
type AuditSink struct {
	producer MessageProducer
	topic    string
}

func NewAuditSink(producer MessageProducer, topic string) *AuditSink {
	return &AuditSink{producer: producer, topic: topic}
}

func (s *AuditSink) Append(ctx context.Context, event audit.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}
	headers := map[string]string{HeaderEventType: event.Action}
	if event.RequestID != "" {
		headers[HeaderRequestID] = event.RequestID
	}
	return s.producer.Produce(ctx, &Message{
		Topic:   s.topic,
		Key:     []byte(event.Subject),
		Value:   value,
		Headers: headers,
	})
}

// DecodeAuditEvent parses a record written by AuditSink.
func DecodeAuditEvent(msg *Received) (audit.Event, error) {
	var event audit.Event
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return audit.Event{}, fmt.Errorf("decode audit event at %s/%d@%d: %w", msg.Topic, msg.Partition, msg.Offset, err)
	}
	return event, nil
}
