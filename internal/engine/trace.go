package engine

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/jman/internal/core/domain"
)

// startWorkflow opens the span covering one workflow. observe records its outcome on it.
func (m *Manager) startWorkflow(ctx context.Context, op domain.Operation, id string) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, string(op), trace.WithAttributes(attribute.String("instance_id", id)))
}

// step opens a child span for one workflow step. The returned func ends it,
// marking the span failed when err is not nil.
func (m *Manager) step(ctx context.Context, name string) (context.Context, func(err error)) {
	ctx, span := m.tracer.Start(ctx, name)
	return ctx, func(err error) {
		failSpan(span, err)
		span.End()
	}
}

func failSpan(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
