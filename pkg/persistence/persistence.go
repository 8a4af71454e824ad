// Package persistence provides the data storage abstraction for workflows,
// credentials, and wait checkpoints.
package persistence

import (
	"context"
	"time"

	"github.com/flowlinehq/flowline/pkg/models"
)

// Persistence is the injected repository the engine and services depend
// on. Implementations must return the package's sentinel errors for
// missing records so callers can match with errors.Is.
type Persistence interface {
	Workflows(ctx context.Context) ([]*models.Workflow, error)
	WorkflowByID(ctx context.Context, id string) (*models.Workflow, error)
	SaveWorkflow(ctx context.Context, workflow *models.Workflow) error
	DeleteWorkflow(ctx context.Context, id string) error

	CredentialByID(ctx context.Context, id string) (*models.Credential, error)
	SaveCredential(ctx context.Context, credential *models.Credential) error

	SaveCheckpoint(ctx context.Context, checkpoint *models.WaitCheckpoint) error
	DueCheckpoints(ctx context.Context, now time.Time) ([]*models.WaitCheckpoint, error)
	DeleteCheckpoint(ctx context.Context, executionID string) error

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
