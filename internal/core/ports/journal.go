package ports

import (
	"context"

	"go.trai.ch/jman/internal/core/domain"
)

// Journal records the outcome of every workflow.
//
//go:generate go run go.uber.org/mock/mockgen -source=journal.go -destination=mocks/mock_journal.go -package=mocks
type Journal interface {
	// Record appends an event.
	Record(ctx context.Context, e domain.Event) error

	// Recent returns up to limit events, newest first.
	Recent(ctx context.Context, limit int) ([]domain.Event, error)

	// Close releases the underlying storage.
	Close() error
}
