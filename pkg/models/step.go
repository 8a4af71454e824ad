package models

import (
	"errors"
	"fmt"
)

// StepKind is the closed set of step types the engine can dispatch on.
// Display titles are mapped to kinds at the editor boundary; the engine
// never dispatches on human-readable text.
type StepKind string

const (
	StepKindTrigger       StepKind = "trigger"
	StepKindCondition     StepKind = "condition"
	StepKindFilter        StepKind = "filter"
	StepKindWait          StepKind = "wait"
	StepKindSendEmail     StepKind = "send_email"
	StepKindDatabaseQuery StepKind = "database_query"
	StepKindCustomCode    StepKind = "custom_code"
	StepKindAPIRequest    StepKind = "api_request"
	StepKindAppAction     StepKind = "app_action"
	StepKindEnd           StepKind = "end"
)

// knownStepKinds lists every kind the data model accepts. Kinds without a
// registered executor are still valid; they run as logged no-ops.
var knownStepKinds = map[StepKind]bool{
	StepKindTrigger:       true,
	StepKindCondition:     true,
	StepKindFilter:        true,
	StepKindWait:          true,
	StepKindSendEmail:     true,
	StepKindDatabaseQuery: true,
	StepKindCustomCode:    true,
	StepKindAPIRequest:    true,
	StepKindAppAction:     true,
	StepKindEnd:           true,
}

// IsKnown reports whether the kind belongs to the closed kind set.
func (k StepKind) IsKnown() bool {
	return knownStepKinds[k]
}

// ErrMissingStepID is returned when a step has no identifier.
var ErrMissingStepID = errors.New("step id is required")

// WorkflowStep is one configured unit of work in a workflow. Config is the
// kind-specific payload; each executor package decodes and validates it at
// construction time.
type WorkflowStep struct {
	ID     string         `json:"id"     validate:"required"`
	Kind   StepKind       `json:"kind"   validate:"required"`
	Title  string         `json:"title"`
	Config map[string]any `json:"config,omitempty"`
}

// DisplayName returns the step title, falling back to the kind when the
// editor left the title empty.
func (s *WorkflowStep) DisplayName() string {
	if s.Title != "" {
		return s.Title
	}

	return string(s.Kind)
}

// Validate checks the step's structural fields. Config payloads are
// validated by the executor factories, not here.
func (s *WorkflowStep) Validate() error {
	if s.ID == "" {
		return ErrMissingStepID
	}

	if !s.Kind.IsKnown() {
		return fmt.Errorf("unknown step kind %q", s.Kind)
	}

	return nil
}

// TitleToKind maps the display titles used by the visual editor onto stable
// step kinds. Only the editor boundary should need this.
func TitleToKind(title string) (StepKind, bool) {
	switch title {
	case "Trigger":
		return StepKindTrigger, true
	case "Condition":
		return StepKindCondition, true
	case "Filter":
		return StepKindFilter, true
	case "Wait":
		return StepKindWait, true
	case "Send Email":
		return StepKindSendEmail, true
	case "Database Query":
		return StepKindDatabaseQuery, true
	case "Custom Code":
		return StepKindCustomCode, true
	case "API Request":
		return StepKindAPIRequest, true
	case "App Action":
		return StepKindAppAction, true
	case "End":
		return StepKindEnd, true
	default:
		return "", false
	}
}
