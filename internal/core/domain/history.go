package domain

import "time"

// Operation names a workflow recorded in the history journal.
type Operation string

// Recorded operations.
const (
	OpInstall Operation = "install"
	OpUpdate  Operation = "update"
	OpRemove  Operation = "remove"
	OpVerify  Operation = "verify"
)

// Outcome is how a recorded workflow ended.
type Outcome string

// Workflow outcomes.
const (
	// OutcomeSuccess means the workflow completed and was persisted.
	OutcomeSuccess Outcome = "success"
	// OutcomeFailed means the workflow failed after mutating and was rolled back.
	OutcomeFailed Outcome = "failed"
	// OutcomeRejected means a precondition failed before any mutation.
	OutcomeRejected Outcome = "rejected"
	// OutcomeDryRun means the workflow was only simulated.
	OutcomeDryRun Outcome = "dry_run"
)

// Event is one entry of the operation history.
type Event struct {
	ID         int64     `json:"id"`
	Operation  Operation `json:"operation"`
	InstanceID string    `json:"instanceId"`
	BuildLabel string    `json:"buildLabel,omitempty"`
	Outcome    Outcome   `json:"outcome"`
	Error      string    `json:"error,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
