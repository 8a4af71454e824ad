// Package resume makes wait suspension durable: instead of sleeping
// in-process, a run is checkpointed with a resume-at timestamp and a
// context snapshot, and a poller re-enters the run loop once the
// checkpoint is due. Waits spanning days this way survive a process
// restart.
package resume

import (
	"context"
	"log/slog"
	"time"

	"github.com/flowlinehq/flowline/pkg/models"
	"github.com/flowlinehq/flowline/pkg/persistence"
	"github.com/flowlinehq/flowline/pkg/protocol"
)

// CheckpointSuspender persists a wait checkpoint and signals the engine to
// stop the run. Waits shorter than Threshold still sleep in-process; a
// checkpoint plus poll cycle is not worth it for sub-minute pauses.
type CheckpointSuspender struct {
	persistence persistence.Persistence
	clock       protocol.Clock
	threshold   time.Duration
	fallback    protocol.Suspender
}

// NewCheckpointSuspender creates a durable suspender. Durations below the
// threshold fall back to an in-process sleep.
func NewCheckpointSuspender(store persistence.Persistence, clock protocol.Clock, threshold time.Duration) *CheckpointSuspender {
	return &CheckpointSuspender{
		persistence: store,
		clock:       clock,
		threshold:   threshold,
		fallback:    protocol.SleepSuspender{},
	}
}

func (s *CheckpointSuspender) Suspend(ctx context.Context, executionCtx *models.ExecutionContext, stepID string, d time.Duration) error {
	if d < s.threshold {
		return s.fallback.Suspend(ctx, executionCtx, stepID, d)
	}

	now := s.clock.Now().UTC()

	checkpoint := &models.WaitCheckpoint{
		ExecutionID: executionCtx.ID,
		WorkflowID:  executionCtx.WorkflowID,
		WaitStepID:  stepID,
		ResumeAt:    now.Add(d),
		Snapshot:    executionCtx.Snapshot(),
		CreatedAt:   now,
	}

	if err := s.persistence.SaveCheckpoint(ctx, checkpoint); err != nil {
		return err
	}

	return protocol.ErrRunSuspended
}

// Runner re-enters a suspended run. The engine implements it.
type Runner interface {
	RunFrom(ctx context.Context, workflow *models.Workflow, executionCtx *models.ExecutionContext, startIndex int) (*models.RunResult, error)
}

// Poller scans for due checkpoints on an interval and resumes them.
type Poller struct {
	persistence persistence.Persistence
	runner      Runner
	clock       protocol.Clock
	interval    time.Duration
	logger      *slog.Logger
}

// NewPoller creates a checkpoint poller.
func NewPoller(store persistence.Persistence, runner Runner, clock protocol.Clock, interval time.Duration, logger *slog.Logger) *Poller {
	return &Poller{
		persistence: store,
		runner:      runner,
		clock:       clock,
		interval:    interval,
		logger:      logger.With("module", "resume_poller"),
	}
}

// Start polls until the context is cancelled.
func (p *Poller) Start(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.Tick(ctx)
		}
	}
}

// Tick resumes every due checkpoint once. Exported so tests and callers
// can drive the poller without a ticker.
func (p *Poller) Tick(ctx context.Context) {
	now := p.clock.Now().UTC()

	due, err := p.persistence.DueCheckpoints(ctx, now)
	if err != nil {
		p.logger.Error("Failed to list due checkpoints", "error", err)

		return
	}

	for _, checkpoint := range due {
		p.resume(ctx, checkpoint)
	}
}

func (p *Poller) resume(ctx context.Context, checkpoint *models.WaitCheckpoint) {
	logger := p.logger.With(
		"execution_id", checkpoint.ExecutionID,
		"workflow_id", checkpoint.WorkflowID,
	)

	workflow, err := p.persistence.WorkflowByID(ctx, checkpoint.WorkflowID)
	if err != nil {
		logger.Error("Failed to load workflow for resume, dropping checkpoint", "error", err)
		p.deleteCheckpoint(ctx, checkpoint, logger)

		return
	}

	// The checkpoint is consumed before the run continues so a crash during
	// the resumed run cannot replay the wait.
	p.deleteCheckpoint(ctx, checkpoint, logger)

	executionCtx := &models.ExecutionContext{
		ID:         checkpoint.ExecutionID,
		WorkflowID: checkpoint.WorkflowID,
		Data:       checkpoint.Snapshot,
		StartedAt:  checkpoint.CreatedAt,
	}

	index, ok := stepIndexAfter(workflow, checkpoint.WaitStepID)
	if !ok {
		logger.Error("Wait step no longer present in workflow, dropping run", "step_id", checkpoint.WaitStepID)

		return
	}

	// Record the completed wait under the wait step's id, as the in-process
	// path would have.
	executionCtx.Merge(checkpoint.WaitStepID, map[string]any{
		"waited_milliseconds": checkpoint.ResumeAt.Sub(checkpoint.CreatedAt).Milliseconds(),
	})

	logger.Info("Resuming suspended run", "start_index", index)

	result, err := p.runner.RunFrom(ctx, workflow, executionCtx, index)
	if err != nil {
		logger.Error("Resumed run failed to start", "error", err)

		return
	}

	if !result.Success {
		logger.Warn("Resumed run failed", "message", result.Message)
	}
}

func (p *Poller) deleteCheckpoint(ctx context.Context, checkpoint *models.WaitCheckpoint, logger *slog.Logger) {
	if err := p.persistence.DeleteCheckpoint(ctx, checkpoint.ExecutionID); err != nil {
		logger.Warn("Failed to delete checkpoint", "error", err)
	}
}

// stepIndexAfter locates the step after the given id in the workflow's
// evaluation order.
func stepIndexAfter(workflow *models.Workflow, stepID string) (int, bool) {
	for i, step := range workflow.ActionSteps() {
		if step.ID == stepID {
			return i + 1, true
		}
	}

	return 0, false
}
