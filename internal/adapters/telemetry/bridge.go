// Package telemetry traces workflows with OpenTelemetry and reports finished
// spans through the logger.
package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/jman/internal/core/ports"
)

var _ sdktrace.SpanProcessor = (*Bridge)(nil)

// Bridge implements sdktrace.SpanProcessor. Every finished span is logged with
// its path below the workflow span and its duration.
type Bridge struct {
	log ports.Logger

	mu    sync.Mutex
	names map[trace.SpanID]string
}

// NewBridge returns a Bridge logging to log.
func NewBridge(log ports.Logger) *Bridge {
	return &Bridge{
		log:   log,
		names: make(map[trace.SpanID]string),
	}
}

// OnStart records the span's path so children can be named after it.
func (b *Bridge) OnStart(_ context.Context, s sdktrace.ReadWriteSpan) {
	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	path := s.Name()
	if parent, ok := b.names[s.Parent().SpanID()]; ok {
		path = parent + "/" + path
	}
	b.names[sc.SpanID()] = path
}

// OnEnd logs the finished span.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	b.mu.Lock()
	path, ok := b.names[sc.SpanID()]
	delete(b.names, sc.SpanID())
	b.mu.Unlock()
	if !ok {
		path = s.Name()
	}

	msg := fmt.Sprintf("trace %s %s", path, s.EndTime().Sub(s.StartTime()).Round(time.Microsecond))
	for _, attr := range s.Attributes() {
		if v := attr.Value.Emit(); v != "" {
			msg += fmt.Sprintf(" %s=%s", attr.Key, v)
		}
	}
	if s.Status().Code == codes.Error {
		msg += " failed"
	}
	b.log.Info(msg)
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}
