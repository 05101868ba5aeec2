package ports

import (
	"time"

	"go.trai.ch/jman/internal/core/domain"
)

// Metrics receives workflow and health observations.
//
//go:generate go run go.uber.org/mock/mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Metrics interface {
	// WorkflowFinished observes a completed install, update, remove or verify call.
	WorkflowFinished(op domain.Operation, outcome domain.Outcome, elapsed time.Duration)

	// RolledBack counts a rollback of op.
	RolledBack(op domain.Operation)

	// HealthObserved records the latest verification status of an instance.
	HealthObserved(instanceID string, status domain.VerificationStatus)

	// Flush writes the collected metrics to their sink, if any.
	Flush() error
}
