// Package models defines the core domain models for workflow automation.
package models

import (
	"errors"
	"time"
)

// WorkflowStatus represents the lifecycle state of a workflow.
type WorkflowStatus string

const (
	WorkflowStatusDraft    WorkflowStatus = "draft"
	WorkflowStatusActive   WorkflowStatus = "active"
	WorkflowStatusArchived WorkflowStatus = "archived"
)

// Workflow is an ordered list of steps executed as a single run.
// The step list is authored externally and handed to the engine as an
// immutable input; the engine never mutates it.
type Workflow struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"        validate:"required,min=3"`
	Description string          `json:"description"`
	Status      WorkflowStatus  `json:"status"`
	Steps       []*WorkflowStep `json:"steps"`
	Metadata    map[string]any  `json:"metadata,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

var (
	// ErrNoTriggerStep is returned when a workflow has no trigger step.
	ErrNoTriggerStep = errors.New("workflow has no trigger step")

	// ErrMultipleTriggerSteps is returned when a workflow has more than one trigger step.
	ErrMultipleTriggerSteps = errors.New("workflow has more than one trigger step")

	// ErrDuplicateStepID is returned when two steps share an identifier.
	ErrDuplicateStepID = errors.New("duplicate step id")
)

// TriggerStep returns the single trigger step of the workflow. Exactly one
// trigger is required; it is evaluated first regardless of storage order.
func (w *Workflow) TriggerStep() (*WorkflowStep, error) {
	var trigger *WorkflowStep

	for _, step := range w.Steps {
		if step.Kind != StepKindTrigger {
			continue
		}

		if trigger != nil {
			return nil, ErrMultipleTriggerSteps
		}

		trigger = step
	}

	if trigger == nil {
		return nil, ErrNoTriggerStep
	}

	return trigger, nil
}

// ActionSteps returns every non-trigger step in storage order.
func (w *Workflow) ActionSteps() []*WorkflowStep {
	steps := make([]*WorkflowStep, 0, len(w.Steps))

	for _, step := range w.Steps {
		if step.Kind != StepKindTrigger {
			steps = append(steps, step)
		}
	}

	return steps
}

// Validate checks structural invariants: exactly one trigger step and
// unique step identifiers.
func (w *Workflow) Validate() error {
	if _, err := w.TriggerStep(); err != nil {
		return err
	}

	seen := make(map[string]bool, len(w.Steps))

	for _, step := range w.Steps {
		if seen[step.ID] {
			return ErrDuplicateStepID
		}

		seen[step.ID] = true

		if err := step.Validate(); err != nil {
			return err
		}
	}

	return nil
}
