// Package tracer is a small tracing facade over OpenTelemetry. Services
// depend on Tracer; production wires the OTel adapter and tests the no-op.
package tracer

import (
	"context"
	"fmt"
	"time"
)

// Span is an active trace span. End must be called exactly once.
type Span interface {
	// End completes the span and marks it failed when err is non-nil.
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: int64(value)}
}

// Duration records value in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Stringer records an ID or enum through its String method.
func Stringer(key string, value fmt.Stringer) Attribute {
	return Attribute{Key: key, Value: value.String()}
}

// Noop discards every span. Services default to it until a real tracer is
// injected.
var Noop Tracer = noopTracer{}

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string, _ ...Attribute) (context.Context, Span) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End(error)                     {}
func (noopSpan) SetAttributes(...Attribute)    {}
func (noopSpan) AddEvent(string, ...Attribute) {}

// Span names.
const (
	SpanAppointmentSchedule   = "appointment.schedule"
	SpanAppointmentReschedule = "appointment.reschedule"
	SpanAppointmentTransition = "appointment.transition"
	SpanProtocolIssue         = "protocol.issue"
	SpanProtocolReserve       = "protocol.reserve"
)

// Attribute keys.
const (
	AttrAppointmentID = "appointment.id"
	AttrProtocol      = "protocol.code"
	AttrCategory      = "protocol.category"
	AttrAttempts      = "protocol.attempts"
	AttrDegraded      = "protocol.registry.degraded"
	AttrFromStatus    = "appointment.status.from"
	AttrToStatus      = "appointment.status.to"
	AttrDoctorID      = "doctor.id"
	AttrRequestID     = "request.id"
	AttrErrorCode     = "error.code"
)

// Event names.
const (
	EventProtocolCollision = "protocol.collision"
)
