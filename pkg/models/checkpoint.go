package models

import (
	"errors"
	"time"
)

// ErrInvalidCheckpoint is returned when checkpoint validation fails.
var ErrInvalidCheckpoint = errors.New("invalid wait checkpoint")

// WaitCheckpoint records a suspended run so a scheduler can resume it at or
// after ResumeAt. The snapshot holds the data context accumulated before
// the wait step; the run resumes at the step after WaitStepID in the
// workflow's evaluation order. ResumeAt is precomputed so due checkpoints
// can be found with a single time comparison, without per-run timers.
type WaitCheckpoint struct {
	ExecutionID string         `json:"execution_id" validate:"required"`
	WorkflowID  string         `json:"workflow_id"  validate:"required"`
	WaitStepID  string         `json:"wait_step_id" validate:"required"`
	ResumeAt    time.Time      `json:"resume_at"`
	Snapshot    map[string]any `json:"snapshot"`
	CreatedAt   time.Time      `json:"created_at"`
}

// IsDue reports whether the checkpoint should be resumed at the given time.
func (c *WaitCheckpoint) IsDue(now time.Time) bool {
	return !c.ResumeAt.After(now)
}

// Validate performs validation on the checkpoint fields.
func (c *WaitCheckpoint) Validate() error {
	if c.ExecutionID == "" || c.WorkflowID == "" || c.WaitStepID == "" {
		return ErrInvalidCheckpoint
	}

	return nil
}
