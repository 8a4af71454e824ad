// Package condition implements the condition step executor: it evaluates
// one rule group against the data context and reports the match. Branching
// on the result is the engine's responsibility.
package condition

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/flowlinehq/flowline/pkg/conditions"
	"github.com/flowlinehq/flowline/pkg/models"
	"github.com/flowlinehq/flowline/pkg/protocol"
)

// Config is the decoded condition step payload. The per-case next step ids
// are consumed by the engine, not the executor.
type Config struct {
	Conditions      []models.Condition     `json:"conditions"`
	LogicalOperator models.LogicalOperator `json:"logical_operator"`
	Expression      string                 `json:"expression,omitempty"`
	TrueNextStepID  string                 `json:"true_next_step_id,omitempty"`
	FalseNextStepID string                 `json:"false_next_step_id,omitempty"`
}

// Group returns the config's condition group.
func (c Config) Group() models.ConditionGroup {
	return models.ConditionGroup{
		Conditions:      c.Conditions,
		LogicalOperator: c.LogicalOperator,
		Expression:      c.Expression,
	}
}

// ParseConfig decodes a raw config map into a Config.
func ParseConfig(config map[string]any) (Config, error) {
	var cfg Config

	if config == nil {
		return cfg, nil
	}

	raw, err := json.Marshal(config)
	if err != nil {
		return cfg, fmt.Errorf("failed to encode condition config: %w", err)
	}

	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode condition config: %w", err)
	}

	return cfg, nil
}

// Factory creates condition executors. The same executor backs both the
// condition and filter kinds; they are functionally identical.
type Factory struct {
	kind models.StepKind
}

// NewFactory creates a factory for the condition kind.
func NewFactory() *Factory {
	return &Factory{kind: models.StepKindCondition}
}

// NewFilterFactory creates a factory for the filter kind.
func NewFilterFactory() *Factory {
	return &Factory{kind: models.StepKindFilter}
}

func (f *Factory) Kind() models.StepKind { return f.kind }

func (f *Factory) Create(config map[string]any) (protocol.StepExecutor, error) {
	cfg, err := ParseConfig(config)
	if err != nil {
		return nil, err
	}

	return &Executor{group: cfg.Group()}, nil
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"conditions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":       map[string]any{"type": "string"},
						"variable": map[string]any{"type": "string"},
						"operator": map[string]any{"type": "string"},
						"value":    map[string]any{"type": "string"},
					},
					"required": []any{"variable", "operator"},
				},
			},
			"logical_operator": map[string]any{
				"type": "string",
				"enum": []any{"AND", "OR"},
			},
			"expression":         map[string]any{"type": "string"},
			"true_next_step_id":  map[string]any{"type": "string"},
			"false_next_step_id": map[string]any{"type": "string"},
		},
	}
}

// Executor evaluates the configured condition group.
type Executor struct {
	group models.ConditionGroup
}

func (e *Executor) Execute(_ context.Context, executionCtx *models.ExecutionContext, logger *slog.Logger) (any, error) {
	var match bool

	if e.group.Expression != "" {
		result, err := conditions.EvaluateExpression(e.group.Expression, executionCtx.Data)
		if err != nil {
			// A malformed expression is a per-step data problem: evaluate to
			// no-match rather than failing the run.
			logger.Warn("Condition expression failed, treating as no match", "error", err)
		}

		match = result
	} else {
		match = conditions.EvaluateGroup(e.group, executionCtx.Data)
	}

	logger.Info("Condition evaluated", "match", match)

	return map[string]any{"match": match}, nil
}
