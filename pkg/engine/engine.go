// Package engine owns the workflow run loop: it seeds the data context
// from the trigger, dispatches each step to its executor, merges results,
// evaluates condition branches, and converts executor faults into a failed
// run result.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/flowlinehq/flowline/pkg/eventbus"
	"github.com/flowlinehq/flowline/pkg/events"
	"github.com/flowlinehq/flowline/pkg/models"
	"github.com/flowlinehq/flowline/pkg/protocol"
	"github.com/flowlinehq/flowline/pkg/registry"
	"github.com/flowlinehq/flowline/pkg/steps/condition"
	"github.com/flowlinehq/flowline/pkg/steps/noop"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// maxStepExecutions bounds one run so branch targets that form a cycle
// cannot spin forever.
const maxStepExecutions = 1000

// Engine executes workflows. One engine serves many concurrent runs; each
// run owns its execution context exclusively and steps within a run are
// strictly sequential.
type Engine struct {
	registry *registry.Registry
	eventBus eventbus.EventBus
	logger   *slog.Logger
	tracer   trace.Tracer
}

// New creates an engine. The event bus is optional; a nil bus disables
// lifecycle notifications.
func New(reg *registry.Registry, bus eventbus.EventBus, logger *slog.Logger) *Engine {
	return &Engine{
		registry: reg,
		eventBus: bus,
		logger:   logger.With("module", "engine"),
		tracer:   otel.Tracer("flowline/engine"),
	}
}

// Run executes a workflow from the start. The trigger step seeds the data
// context: an externally supplied trigger payload wins over the payload
// selected in the trigger step's config.
func (e *Engine) Run(ctx context.Context, workflow *models.Workflow, triggerData map[string]any) (*models.RunResult, error) {
	trigger, err := workflow.TriggerStep()
	if err != nil {
		return nil, fmt.Errorf("workflow %s is not runnable: %w", workflow.ID, err)
	}

	if triggerData == nil {
		triggerData = models.DecodeTriggerConfig(trigger.Config).Event
	}

	executionCtx := models.NewExecutionContext(workflow.ID, triggerData)

	e.publish(ctx, &events.ExecutionStarted{
		BaseEvent:   e.baseEvent(events.ExecutionStartedEvent, executionCtx),
		TriggerData: triggerData,
	})

	return e.RunFrom(ctx, workflow, executionCtx, 0)
}

// RunFrom executes a workflow's action steps starting at the given index
// in evaluation order, against an existing execution context. The resume
// scheduler uses it to re-enter a run after a durable wait.
func (e *Engine) RunFrom(ctx context.Context, workflow *models.Workflow, executionCtx *models.ExecutionContext, startIndex int) (*models.RunResult, error) {
	logger := e.logger.With(
		"workflow_id", workflow.ID,
		"execution_id", executionCtx.ID,
	)

	ctx, span := e.tracer.Start(ctx, "workflow.run", trace.WithAttributes(
		attribute.String("workflow.id", workflow.ID),
		attribute.String("execution.id", executionCtx.ID),
	))
	defer span.End()

	logger.Info("Starting workflow execution", "start_index", startIndex)

	steps := workflow.ActionSteps()

	executed := 0
	index := startIndex

	for index >= 0 && index < len(steps) {
		if executed++; executed > maxStepExecutions {
			return &models.RunResult{
				Success: false,
				Message: "Workflow failed: step execution limit exceeded, branch targets form a cycle",
				Context: executionCtx.Data,
			}, nil
		}

		step := steps[index]
		stepLogger := logger.With("step_id", step.ID, "step_kind", step.Kind)

		result, err := e.executeStep(ctx, step, executionCtx, stepLogger)
		if err != nil {
			if errors.Is(err, protocol.ErrRunSuspended) {
				logger.Info("Workflow suspended for durable wait", "step_id", step.ID)

				e.publish(ctx, &events.ExecutionSuspended{
					BaseEvent: e.baseEvent(events.ExecutionSuspendedEvent, executionCtx),
					StepID:    step.ID,
				})

				return &models.RunResult{
					Success:   true,
					Suspended: true,
					Message:   fmt.Sprintf("Workflow suspended at step: %s", step.DisplayName()),
					Context:   executionCtx.Data,
				}, nil
			}

			stepLogger.Error("Step execution failed", "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())

			e.publish(ctx, &events.ExecutionFailed{
				BaseEvent: e.baseEvent(events.ExecutionFailedEvent, executionCtx),
				StepID:    step.ID,
				Error:     err.Error(),
			})

			return &models.RunResult{
				Success: false,
				Message: fmt.Sprintf("Workflow failed at step: %s. Reason: %v", step.DisplayName(), err),
				Context: executionCtx.Data,
			}, nil
		}

		executionCtx.Merge(step.ID, result)

		e.publish(ctx, &events.StepFinished{
			BaseEvent: e.baseEvent(events.StepFinishedEvent, executionCtx),
			StepID:    step.ID,
			Result:    result,
		})

		next, err := e.nextIndex(steps, index, step, result)
		if err != nil {
			stepLogger.Error("Branch resolution failed", "error", err)

			return &models.RunResult{
				Success: false,
				Message: fmt.Sprintf("Workflow failed at step: %s. Reason: %v", step.DisplayName(), err),
				Context: executionCtx.Data,
			}, nil
		}

		index = next
	}

	logger.Info("Workflow execution completed")

	e.publish(ctx, &events.ExecutionCompleted{
		BaseEvent: e.baseEvent(events.ExecutionCompletedEvent, executionCtx),
		Duration:  time.Since(executionCtx.StartedAt),
	})

	return &models.RunResult{
		Success: true,
		Message: "Workflow completed",
		Context: executionCtx.Data,
	}, nil
}

// executeStep dispatches one step to its executor. Kinds without a
// registered executor pass through with a placeholder result.
func (e *Engine) executeStep(ctx context.Context, step *models.WorkflowStep, executionCtx *models.ExecutionContext, logger *slog.Logger) (any, error) {
	ctx, span := e.tracer.Start(ctx, "workflow.step", trace.WithAttributes(
		attribute.String("step.id", step.ID),
		attribute.String("step.kind", string(step.Kind)),
	))
	defer span.End()

	if !e.registry.Registered(step.Kind) {
		logger.Info("No executor registered for step kind, passing through", "kind", step.Kind)

		return noop.PlaceholderResult(step.Kind), nil
	}

	config := make(map[string]any, len(step.Config)+1)
	for k, v := range step.Config {
		config[k] = v
	}
	config["id"] = step.ID

	executor, err := e.registry.CreateExecutor(step.Kind, config)
	if err != nil {
		return nil, err
	}

	return executor.Execute(ctx, executionCtx, logger)
}

// nextIndex resolves the step pointer after a finished step. Condition and
// filter steps may jump to a per-case next step id; everything else, and
// conditions without branch targets, advances linearly.
func (e *Engine) nextIndex(steps []*models.WorkflowStep, index int, step *models.WorkflowStep, result any) (int, error) {
	if step.Kind != models.StepKindCondition && step.Kind != models.StepKindFilter {
		return index + 1, nil
	}

	cfg, err := condition.ParseConfig(step.Config)
	if err != nil {
		return index + 1, nil
	}

	match := false
	if resultMap, ok := result.(map[string]any); ok {
		match, _ = resultMap["match"].(bool)
	}

	target := cfg.FalseNextStepID
	if match {
		target = cfg.TrueNextStepID
	}

	if target == "" {
		return index + 1, nil
	}

	for i, candidate := range steps {
		if candidate.ID == target {
			return i, nil
		}
	}

	return 0, fmt.Errorf("branch target step %s not found", target)
}

func (e *Engine) baseEvent(eventType events.EventType, executionCtx *models.ExecutionContext) events.BaseEvent {
	return events.BaseEvent{
		ID:          uuid.New().String(),
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		WorkflowID:  executionCtx.WorkflowID,
		ExecutionID: executionCtx.ID,
	}
}

func (e *Engine) publish(ctx context.Context, event events.Event) {
	if e.eventBus == nil {
		return
	}

	if err := e.eventBus.Publish(ctx, event); err != nil {
		e.logger.Warn("Failed to publish lifecycle event", "event_type", event.GetType(), "error", err)
	}
}
