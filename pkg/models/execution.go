package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TriggerContextKey is the reserved data context key holding the
// triggering event payload.
const TriggerContextKey = "trigger"

// ExecutionContext carries the state of one workflow run. Data maps step-id
// to that step's result, plus the reserved trigger key. It grows
// monotonically: keys are written once and never mutated, only extended.
type ExecutionContext struct {
	ID         string         `json:"id"`
	WorkflowID string         `json:"workflow_id"`
	Data       map[string]any `json:"data"`
	StartedAt  time.Time      `json:"started_at"`
}

// NewExecutionContext creates a fresh context for a single run, seeding the
// trigger key from the triggering event payload. A nil payload seeds an
// empty object so trigger paths resolve to absent rather than failing on a
// missing root.
func NewExecutionContext(workflowID string, triggerData map[string]any) *ExecutionContext {
	if triggerData == nil {
		triggerData = map[string]any{}
	}

	return &ExecutionContext{
		ID:         GenerateExecutionID(),
		WorkflowID: workflowID,
		Data:       map[string]any{TriggerContextKey: triggerData},
		StartedAt:  time.Now().UTC(),
	}
}

// Merge records a step result under the step's id. Nil results are not
// merged, keeping the context free of no-op placeholders.
func (c *ExecutionContext) Merge(stepID string, result any) {
	if result == nil {
		return
	}

	c.Data[stepID] = result
}

// Snapshot returns a deep-enough copy of the data map for persistence at a
// suspend checkpoint. Step results are never mutated after being written,
// so copying the top level is sufficient.
func (c *ExecutionContext) Snapshot() map[string]any {
	snapshot := make(map[string]any, len(c.Data))
	for k, v := range c.Data {
		snapshot[k] = v
	}

	return snapshot
}

// GenerateExecutionID generates a unique execution identifier.
func GenerateExecutionID() string {
	return fmt.Sprintf("exec-%s", uuid.New().String()[:8])
}

// RunResult is the terminal output of one execution.
type RunResult struct {
	Success   bool           `json:"success"`
	Suspended bool           `json:"suspended,omitempty"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"final_context"`
}
