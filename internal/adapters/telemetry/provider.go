package telemetry

import (
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.trai.ch/jman/internal/core/ports"
)

// InstrumentationName names the tracer used by the workflows.
const InstrumentationName = "go.trai.ch/jman"

// NewTracer returns the workflow tracer. When enabled, a TracerProvider that
// logs through the Bridge is registered as the global provider; otherwise
// spans are discarded.
func NewTracer(log ports.Logger, enabled bool) trace.Tracer {
	if !enabled {
		return noop.NewTracerProvider().Tracer(InstrumentationName)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(NewBridge(log)),
	)
	otel.SetTracerProvider(tp)
	return otel.Tracer(InstrumentationName)
}
