package audit

import (
	"context"
	"fmt"
	"log/slog"

	"uniagendas/pkg/requestcontext"
)

// Emitter accepts audit events for delivery. publisher.Publisher is the
// production implementation.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}

// Recorder turns service-level facts into one audit log line and one
// emitted Event. Either side may be nil; a nil *Recorder records nothing.
type Recorder struct {
	logger  *slog.Logger
	emitter Emitter
}

func NewRecorder(logger *slog.Logger, emitter Emitter) *Recorder {
	return &Recorder{logger: logger, emitter: emitter}
}

// Record takes slog-style key/value pairs. The first of appointment_id,
// patient_id and doctor_id becomes the event subject, protocol is lifted
// into Event.Protocol and the request ID, device and time come from ctx.
//
//	r.Record(ctx, audit.EventAppointmentConfirmed, "appointment_id", appt.ID, "protocol", appt.Protocol)
func (r *Recorder) Record(ctx context.Context, action Action, kv ...any) {
	if r == nil {
		return
	}
	requestID := requestcontext.RequestID(ctx)

	if r.logger != nil {
		args := make([]any, 0, len(kv)+6)
		args = append(args, kv...)
		if requestID != "" {
			args = append(args, "request_id", requestID)
		}
		args = append(args, "event", string(action), "log_type", "audit")
		r.logger.InfoContext(ctx, string(action), args...)
	}
	if r.emitter == nil {
		return
	}

	event := newEvent(ctx, action, requestID, toFields(kv))
	if err := r.emitter.Emit(ctx, event); err != nil && r.logger != nil {
		r.logger.ErrorContext(ctx, "failed to emit audit event",
			"error", err,
			"event", string(action),
		)
	}
}

func newEvent(ctx context.Context, action Action, requestID string, fields map[string]string) Event {
	e := Event{
		Timestamp: requestcontext.Now(ctx),
		Action:    string(action),
		Protocol:  fields["protocol"],
		RequestID: requestID,
		Device:    requestcontext.Device(ctx),
	}
	delete(fields, "protocol")
	delete(fields, "request_id")
	for _, key := range subjectKeys {
		if v, ok := fields[key]; ok {
			e.Subject = v
			break
		}
	}
	if len(fields) > 0 {
		e.Attributes = fields
	}
	return e
}

// toFields flattens key/value pairs. Non-string keys and a trailing key
// without a value are dropped.
func toFields(kv []any) map[string]string {
	fields := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		switch v := kv[i+1].(type) {
		case string:
			fields[key] = v
		case fmt.Stringer:
			fields[key] = v.String()
		default:
			fields[key] = fmt.Sprint(v)
		}
	}
	return fields
}
