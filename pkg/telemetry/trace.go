package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultTracerName is the tracer name used when none is configured.
const DefaultTracerName = "github.com/vango-dev/motion"

// Tracer returns a tracer from the global provider. An empty name selects
// DefaultTracerName.
func Tracer(name string) trace.Tracer {
	if name == "" {
		name = DefaultTracerName
	}
	return otel.Tracer(name)
}

// StartSpan starts a span named name under ctx. Call the returned function
// with the operation's error to record the status and end the span.
//
//	ctx, end := telemetry.StartSpan(ctx, tracer, "motion.simulate",
//	    attribute.String("motion.scenario", sc.Name))
//	err := run(ctx)
//	end(err)
func StartSpan(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	if tracer == nil {
		tracer = Tracer("")
	}
	ctx, span := tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}
}

// SpanFromContext returns the span stored in ctx, or a no-op span.
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}
