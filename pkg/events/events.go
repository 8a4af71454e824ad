// Package events defines event types for run lifecycle notifications.
package events

import (
	"time"
)

type EventType string

const Topic = "flowline.executions"

const EventTypeMetadataKey = "event_type"

const (
	ExecutionStartedEvent   EventType = "execution.started"
	StepFinishedEvent       EventType = "execution.step.finished"
	ExecutionCompletedEvent EventType = "execution.completed"
	ExecutionFailedEvent    EventType = "execution.failed"
	ExecutionSuspendedEvent EventType = "execution.suspended"
)

// Event is implemented by every lifecycle event.
type Event interface {
	GetType() EventType
}

type BaseEvent struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	WorkflowID  string    `json:"workflow_id"`
	ExecutionID string    `json:"execution_id"`
}

type ExecutionStarted struct {
	BaseEvent

	TriggerData map[string]any `json:"trigger_data,omitempty"`
}

func (e ExecutionStarted) GetType() EventType { return ExecutionStartedEvent }

type StepFinished struct {
	BaseEvent

	StepID string `json:"step_id"`
	Result any    `json:"result,omitempty"`
}

func (e StepFinished) GetType() EventType { return StepFinishedEvent }

type ExecutionCompleted struct {
	BaseEvent

	Duration time.Duration `json:"duration"`
}

func (e ExecutionCompleted) GetType() EventType { return ExecutionCompletedEvent }

type ExecutionFailed struct {
	BaseEvent

	StepID string `json:"step_id"`
	Error  string `json:"error"`
}

func (e ExecutionFailed) GetType() EventType { return ExecutionFailedEvent }

type ExecutionSuspended struct {
	BaseEvent

	StepID   string    `json:"step_id"`
	ResumeAt time.Time `json:"resume_at"`
}

func (e ExecutionSuspended) GetType() EventType { return ExecutionSuspendedEvent }
