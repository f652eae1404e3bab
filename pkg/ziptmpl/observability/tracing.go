package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartParseSpan starts a span for resolving a template to its parsed form.
	StartParseSpan(ctx context.Context, digest string) (context.Context, trace.Span)

	// StartRenderSpan starts a span for a render.
	// Parse spans started with the returned context are its children.
	StartRenderSpan(ctx context.Context, digest string, strict bool) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct {
	tracer trace.Tracer
}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return NewSpanManagerFromProvider(otel.GetTracerProvider())
}

// NewSpanManagerFromProvider returns a SpanManager bound to provider instead
// of the global one.
func NewSpanManagerFromProvider(provider trace.TracerProvider) SpanManager {
	return &otelSpanManager{tracer: provider.Tracer("ziptmpl")}
}

// StartParseSpan starts a parse span.
func (m *otelSpanManager) StartParseSpan(ctx context.Context, digest string) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, "ziptmpl.parse",
		trace.WithAttributes(
			attribute.String("template.digest", digest),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartRenderSpan starts a render span.
func (m *otelSpanManager) StartRenderSpan(ctx context.Context, digest string, strict bool) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, "ziptmpl.render",
		trace.WithAttributes(
			attribute.String("template.digest", digest),
			attribute.Bool("render.strict", strict),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
