package history

import (
	"context"

	"go.trai.ch/jman/internal/core/domain"
	"go.trai.ch/jman/internal/core/ports"
)

var _ ports.Journal = Noop{}

// Noop discards events. It is used when history is disabled.
type Noop struct{}

// Record implements ports.Journal.
func (Noop) Record(context.Context, domain.Event) error { return nil }

// Recent implements ports.Journal.
func (Noop) Recent(context.Context, int) ([]domain.Event, error) { return nil, nil }

// Close implements ports.Journal.
func (Noop) Close() error { return nil }
