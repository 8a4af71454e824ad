// Package services provides the application layer between the HTTP API,
// the persistence layer, and the engine.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/flowlinehq/flowline/pkg/models"
	"github.com/flowlinehq/flowline/pkg/persistence"
	"github.com/flowlinehq/flowline/pkg/schedule"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ErrValidation wraps workflow validation failures so the API layer can
// map them to 400 responses.
var ErrValidation = errors.New("workflow validation failed")

// IsValidationError checks if an error is a validation failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// Workflow is the workflow management service.
type Workflow struct {
	persistence persistence.Persistence
	validator   *validator.Validate
}

// NewWorkflow creates a new workflow service.
func NewWorkflow(store persistence.Persistence) *Workflow {
	return &Workflow{
		persistence: store,
		validator:   validator.New(),
	}
}

// HealthCheck checks the health of the persistence layer.
func (w *Workflow) HealthCheck(ctx context.Context) (string, bool) {
	if w.persistence == nil {
		return "Persistence layer not initialized", false
	}

	if err := w.persistence.HealthCheck(ctx); err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// List returns all stored workflows.
func (w *Workflow) List(ctx context.Context) ([]*models.Workflow, error) {
	return w.persistence.Workflows(ctx)
}

// Get returns one workflow by id.
func (w *Workflow) Get(ctx context.Context, id string) (*models.Workflow, error) {
	return w.persistence.WorkflowByID(ctx, id)
}

// Create validates and stores a new workflow, assigning an id when the
// caller did not provide one.
func (w *Workflow) Create(ctx context.Context, workflow *models.Workflow) (*models.Workflow, error) {
	if workflow.ID == "" {
		workflow.ID = uuid.New().String()
	}

	if workflow.Status == "" {
		workflow.Status = models.WorkflowStatusDraft
	}

	if err := w.validate(workflow); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	workflow.CreatedAt = now
	workflow.UpdatedAt = now

	if err := w.persistence.SaveWorkflow(ctx, workflow); err != nil {
		return nil, err
	}

	return workflow, nil
}

// Update validates and replaces an existing workflow, preserving its
// creation timestamp.
func (w *Workflow) Update(ctx context.Context, id string, workflow *models.Workflow) (*models.Workflow, error) {
	existing, err := w.persistence.WorkflowByID(ctx, id)
	if err != nil {
		return nil, err
	}

	workflow.ID = id
	workflow.CreatedAt = existing.CreatedAt
	workflow.UpdatedAt = time.Now().UTC()

	if err := w.validate(workflow); err != nil {
		return nil, err
	}

	if err := w.persistence.SaveWorkflow(ctx, workflow); err != nil {
		return nil, err
	}

	return workflow, nil
}

// Delete removes a workflow by id.
func (w *Workflow) Delete(ctx context.Context, id string) error {
	return w.persistence.DeleteWorkflow(ctx, id)
}

// validate combines struct-tag validation with the structural invariants
// the data model enforces, plus cron validation for scheduled triggers.
func (w *Workflow) validate(workflow *models.Workflow) error {
	if err := w.validator.Struct(workflow); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if err := workflow.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	trigger, err := workflow.TriggerStep()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if cronExpr := models.DecodeTriggerConfig(trigger.Config).Schedule; cronExpr != "" {
		if err := schedule.ValidateCron(cronExpr); err != nil {
			return fmt.Errorf("%w: %w", ErrValidation, err)
		}
	}

	return nil
}
