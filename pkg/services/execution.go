package services

import (
	"context"
	"fmt"

	"github.com/flowlinehq/flowline/pkg/engine"
	"github.com/flowlinehq/flowline/pkg/models"
	"github.com/flowlinehq/flowline/pkg/persistence"
)

// Execution runs stored workflows through the engine.
type Execution struct {
	engine      *engine.Engine
	persistence persistence.Persistence
}

// NewExecution creates a new execution service.
func NewExecution(eng *engine.Engine, store persistence.Persistence) *Execution {
	return &Execution{engine: eng, persistence: store}
}

// Run loads a workflow by id and executes it with the given trigger
// payload. A nil payload lets the trigger step's configured event seed the
// context.
func (e *Execution) Run(ctx context.Context, workflowID string, triggerData map[string]any) (*models.RunResult, error) {
	workflow, err := e.persistence.WorkflowByID(ctx, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch workflow %s: %w", workflowID, err)
	}

	return e.engine.Run(ctx, workflow, triggerData)
}
