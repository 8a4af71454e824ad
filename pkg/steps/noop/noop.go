// Package noop backs step kinds without a real executor: it logs and
// passes through with a placeholder result. Unimplemented kinds are never
// fatal to a run.
package noop

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/flowlinehq/flowline/pkg/models"
	"github.com/flowlinehq/flowline/pkg/protocol"
)

// PlaceholderResult builds the pass-through result recorded for a step
// kind without an implementation.
func PlaceholderResult(kind models.StepKind) map[string]any {
	return map[string]any{
		"note": fmt.Sprintf("execution not implemented for %s", kind),
	}
}

// Factory creates no-op executors for one step kind.
type Factory struct {
	kind models.StepKind
}

// NewFactory creates a no-op factory for the given kind.
func NewFactory(kind models.StepKind) *Factory {
	return &Factory{kind: kind}
}

func (f *Factory) Kind() models.StepKind { return f.kind }

func (f *Factory) Create(_ map[string]any) (protocol.StepExecutor, error) {
	return &Executor{kind: f.kind}, nil
}

func (f *Factory) Schema() map[string]any { return nil }

// Executor logs and passes through.
type Executor struct {
	kind models.StepKind
}

func (e *Executor) Execute(_ context.Context, _ *models.ExecutionContext, logger *slog.Logger) (any, error) {
	logger.Info("Step kind not implemented, passing through", "kind", e.kind)

	return PlaceholderResult(e.kind), nil
}
