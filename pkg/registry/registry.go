// Package registry maps step kinds to executor factories.
package registry

import (
	"fmt"
	"log/slog"

	"github.com/flowlinehq/flowline/pkg/models"
	"github.com/flowlinehq/flowline/pkg/protocol"
)

// Registry holds the executor factories the engine dispatches to. Kinds
// without a registered factory are not an error; the engine treats them as
// logged no-ops.
type Registry struct {
	logger    *slog.Logger
	factories map[models.StepKind]protocol.StepFactory
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:    logger,
		factories: make(map[models.StepKind]protocol.StepFactory),
	}
}

// Register adds a factory for its step kind, replacing any previous one.
func (r *Registry) Register(factory protocol.StepFactory) {
	r.factories[factory.Kind()] = factory
}

// Registered reports whether a factory exists for the kind.
func (r *Registry) Registered(kind models.StepKind) bool {
	_, ok := r.factories[kind]

	return ok
}

// CreateExecutor builds an executor for the step kind from its raw config,
// validating the config against the factory's schema first.
func (r *Registry) CreateExecutor(kind models.StepKind, config map[string]any) (protocol.StepExecutor, error) {
	factory, ok := r.factories[kind]
	if !ok {
		return nil, fmt.Errorf("step kind %q not registered", kind)
	}

	if err := ValidateConfig(factory.Schema(), config); err != nil {
		return nil, fmt.Errorf("invalid config for step kind %q: %w", kind, err)
	}

	return factory.Create(config)
}
