package engine

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/jman/internal/core/domain"
)

type event struct {
	op      domain.Operation
	id      string
	label   string
	outcome domain.Outcome
	start   time.Time
	err     error
}

// observe reports a finished workflow to the journal, the metrics and the
// span carried by ctx. Failures here are logged and never change the result.
func (m *Manager) observe(ctx context.Context, ev event) {
	elapsed := m.now().Sub(ev.start)
	m.metrics.WorkflowFinished(ev.op, ev.outcome, elapsed)

	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.String("outcome", string(ev.outcome)))
	if ev.label != "" {
		span.SetAttributes(attribute.String("build_label", ev.label))
	}
	failSpan(span, ev.err)

	rec := domain.Event{
		Operation:  ev.op,
		InstanceID: ev.id,
		BuildLabel: ev.label,
		Outcome:    ev.outcome,
		OccurredAt: m.now(),
	}
	if ev.err != nil {
		rec.Error = ev.err.Error()
	}
	if err := m.journal.Record(context.WithoutCancel(ctx), rec); err != nil {
		m.logger.Warn(fmt.Sprintf("history: could not record %s of %q: %v", ev.op, ev.id, err))
	}
}

type discardJournal struct{}

func (discardJournal) Record(context.Context, domain.Event) error          { return nil }
func (discardJournal) Recent(context.Context, int) ([]domain.Event, error) { return nil, nil }
func (discardJournal) Close() error                                        { return nil }

type discardMetrics struct{}

func (discardMetrics) WorkflowFinished(domain.Operation, domain.Outcome, time.Duration) {}
func (discardMetrics) RolledBack(domain.Operation)                                      {}
func (discardMetrics) HealthObserved(string, domain.VerificationStatus)                 {}
func (discardMetrics) Flush() error                                                     { return nil }
