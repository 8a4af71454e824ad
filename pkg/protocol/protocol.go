// Package protocol defines the contracts between the engine, step
// executors, and external collaborators.
package protocol

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/flowlinehq/flowline/pkg/models"
)

// StepExecutor runs one configured step against the accumulated data
// context and returns the result to merge under the step's id. A returned
// error is an executor fault and fails the whole run; per-step data
// problems are reported inside the result instead.
type StepExecutor interface {
	Execute(ctx context.Context, executionCtx *models.ExecutionContext, logger *slog.Logger) (any, error)
}

// StepFactory creates executors for one step kind from the step's raw
// config payload. Create validates the config; a bad payload surfaces at
// construction, not mid-run.
type StepFactory interface {
	Kind() models.StepKind
	Create(config map[string]any) (StepExecutor, error)
	Schema() map[string]any
}

// Clock abstracts time.Now so wait arithmetic is testable.
type Clock interface {
	Now() time.Time
}

// SystemClock is the real clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ErrRunSuspended signals that a wait step has checkpointed the run for
// durable resumption instead of sleeping in-process. The engine stops the
// loop and reports the run as suspended, not failed.
var ErrRunSuspended = errors.New("run suspended for durable wait")

// Suspender suspends a run for the computed wait duration. The in-process
// implementation sleeps; the durable implementation persists a checkpoint
// and returns ErrRunSuspended.
type Suspender interface {
	Suspend(ctx context.Context, executionCtx *models.ExecutionContext, stepID string, d time.Duration) error
}

// SleepSuspender blocks the run's task for the duration, honoring context
// cancellation.
type SleepSuspender struct{}

func (SleepSuspender) Suspend(ctx context.Context, _ *models.ExecutionContext, _ string, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// CredentialStore looks up stored credentials by id.
type CredentialStore interface {
	CredentialByID(ctx context.Context, id string) (*models.Credential, error)
}
