// Package wait implements the wait step executor: it computes a suspend
// duration from the wait spec and suspends the run for it. This is the
// single point in a run where real-world time passes.
package wait

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/flowlinehq/flowline/pkg/models"
	"github.com/flowlinehq/flowline/pkg/protocol"
	"github.com/flowlinehq/flowline/pkg/schedule"
)

// ParseSpec decodes a raw config map into a wait spec.
func ParseSpec(config map[string]any) (models.WaitSpec, error) {
	var spec models.WaitSpec

	if config == nil {
		return spec, nil
	}

	raw, err := json.Marshal(config)
	if err != nil {
		return spec, fmt.Errorf("failed to encode wait config: %w", err)
	}

	if err := json.Unmarshal(raw, &spec); err != nil {
		return spec, fmt.Errorf("failed to decode wait config: %w", err)
	}

	return spec, nil
}

// Factory creates wait executors bound to a clock and a suspender.
type Factory struct {
	clock     protocol.Clock
	suspender protocol.Suspender
}

// NewFactory creates a wait step factory. The suspender decides whether the
// run sleeps in-process or checkpoints for durable resumption.
func NewFactory(clock protocol.Clock, suspender protocol.Suspender) *Factory {
	return &Factory{clock: clock, suspender: suspender}
}

func (f *Factory) Kind() models.StepKind { return models.StepKindWait }

func (f *Factory) Create(config map[string]any) (protocol.StepExecutor, error) {
	spec, err := ParseSpec(config)
	if err != nil {
		return nil, err
	}

	stepID, _ := config["id"].(string)

	return &Executor{
		stepID:    stepID,
		spec:      spec,
		clock:     f.clock,
		suspender: f.suspender,
	}, nil
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"mode": map[string]any{
				"type": "string",
				"enum": []any{"duration", "datetime", "office_hours", "timestamp"},
			},
			"value":     map[string]any{"type": "number"},
			"unit":      map[string]any{"type": "string", "enum": []any{"minutes", "hours", "days"}},
			"datetime":  map[string]any{"type": "string"},
			"timestamp": map[string]any{"type": "string"},
			"office_days": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "integer", "minimum": 0, "maximum": 6},
			},
			"start_time": map[string]any{"type": "string"},
			"end_time":   map[string]any{"type": "string"},
			"action":     map[string]any{"type": "string", "enum": []any{"wait", "proceed"}},
		},
	}
}

// Executor computes and performs the suspension.
type Executor struct {
	stepID    string
	spec      models.WaitSpec
	clock     protocol.Clock
	suspender protocol.Suspender
}

func (e *Executor) Execute(ctx context.Context, executionCtx *models.ExecutionContext, logger *slog.Logger) (any, error) {
	delay := schedule.ComputeWait(e.spec, executionCtx.Data, e.clock.Now(), logger)

	logger.Info("Waiting", "mode", e.spec.Mode, "delay", delay)

	if err := e.suspender.Suspend(ctx, executionCtx, e.stepID, delay); err != nil {
		return nil, err
	}

	return map[string]any{"waited_milliseconds": delay.Milliseconds()}, nil
}
