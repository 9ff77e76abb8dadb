package tracer

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	dErrors "uniagendas/pkg/domain-errors"
	"uniagendas/pkg/requestcontext"
)

const scopeName = "uniagendas"

// OTel starts spans on an OpenTelemetry tracer. Every span carries the
// request ID. Only server-side failures set the error status.
type OTel struct {
	tracer trace.Tracer
}

// NewOTel uses the global provider when provider is nil.
func NewOTel(provider trace.TracerProvider) *OTel {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return &OTel{tracer: provider.Tracer(scopeName)}
}

func (t *OTel) Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span) {
	kv := convert(attrs)
	if id := requestcontext.RequestID(ctx); id != "" {
		kv = append(kv, attribute.String(AttrRequestID, id))
	}
	ctx, span := t.tracer.Start(ctx, name, trace.WithAttributes(kv...))
	return ctx, otelSpan{span}
}

type otelSpan struct {
	trace.Span
}

func (s otelSpan) End(err error) {
	if err != nil {
		code := dErrors.CodeOf(err)
		s.Span.SetAttributes(attribute.String(AttrErrorCode, string(code)))
		if serverSide(code) {
			s.Span.RecordError(err)
			s.Span.SetStatus(codes.Error, err.Error())
		}
	}
	s.Span.End()
}

func (s otelSpan) SetAttributes(attrs ...Attribute) {
	s.Span.SetAttributes(convert(attrs)...)
}

func (s otelSpan) AddEvent(name string, attrs ...Attribute) {
	s.Span.AddEvent(name, trace.WithAttributes(convert(attrs)...))
}

// serverSide reports whether code means the system, not the caller, failed.
func serverSide(code dErrors.Code) bool {
	switch code {
	case dErrors.CodeInternal, dErrors.CodeUnavailable, dErrors.CodeTimeout:
		return true
	}
	return false
}

// convert drops values of unsupported types.
func convert(attrs []Attribute) []attribute.KeyValue {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]attribute.KeyValue, 0, len(attrs)+1)
	for _, a := range attrs {
		switch v := a.Value.(type) {
		case string:
			out = append(out, attribute.String(a.Key, v))
		case bool:
			out = append(out, attribute.Bool(a.Key, v))
		case int64:
			out = append(out, attribute.Int64(a.Key, v))
		case int:
			out = append(out, attribute.Int(a.Key, v))
		case float64:
			out = append(out, attribute.Float64(a.Key, v))
		}
	}
	return out
}

var _ Tracer = (*OTel)(nil)
