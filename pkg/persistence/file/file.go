// Package file provides a JSON-file persistence implementation: one file
// per record under workflows/, credentials/, and checkpoints/ directories.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/flowlinehq/flowline/pkg/models"
	"github.com/flowlinehq/flowline/pkg/persistence"
)

const dirMode = 0o755

// Persistence stores records as JSON files under a root directory.
type Persistence struct {
	root string
}

// NewPersistence creates a file persistence rooted at the given directory,
// creating the record subdirectories if needed.
func NewPersistence(root string) (*Persistence, error) {
	for _, sub := range []string{"workflows", "credentials", "checkpoints"} {
		if err := os.MkdirAll(filepath.Join(root, sub), dirMode); err != nil {
			return nil, fmt.Errorf("failed to create %s directory: %w", sub, err)
		}
	}

	return &Persistence{root: root}, nil
}

func (p *Persistence) Workflows(ctx context.Context) ([]*models.Workflow, error) {
	ids, err := p.listIDs("workflows")
	if err != nil {
		return nil, err
	}

	workflows := make([]*models.Workflow, 0, len(ids))

	for _, id := range ids {
		workflow, err := p.WorkflowByID(ctx, id)
		if err != nil {
			return nil, err
		}

		workflows = append(workflows, workflow)
	}

	return workflows, nil
}

func (p *Persistence) WorkflowByID(_ context.Context, id string) (*models.Workflow, error) {
	var workflow models.Workflow

	if err := p.read("workflows", id, &workflow); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, persistence.ErrWorkflowNotFound
		}

		return nil, err
	}

	return &workflow, nil
}

func (p *Persistence) SaveWorkflow(_ context.Context, workflow *models.Workflow) error {
	return p.write("workflows", workflow.ID, workflow)
}

func (p *Persistence) DeleteWorkflow(_ context.Context, id string) error {
	err := os.Remove(p.path("workflows", id))
	if errors.Is(err, fs.ErrNotExist) {
		return persistence.ErrWorkflowNotFound
	}

	return err
}

func (p *Persistence) CredentialByID(_ context.Context, id string) (*models.Credential, error) {
	var credential models.Credential

	if err := p.read("credentials", id, &credential); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, persistence.ErrCredentialNotFound
		}

		return nil, err
	}

	return &credential, nil
}

func (p *Persistence) SaveCredential(_ context.Context, credential *models.Credential) error {
	return p.write("credentials", credential.ID, credential)
}

func (p *Persistence) SaveCheckpoint(_ context.Context, checkpoint *models.WaitCheckpoint) error {
	if err := checkpoint.Validate(); err != nil {
		return err
	}

	return p.write("checkpoints", checkpoint.ExecutionID, checkpoint)
}

func (p *Persistence) DueCheckpoints(_ context.Context, now time.Time) ([]*models.WaitCheckpoint, error) {
	ids, err := p.listIDs("checkpoints")
	if err != nil {
		return nil, err
	}

	due := make([]*models.WaitCheckpoint, 0)

	for _, id := range ids {
		var checkpoint models.WaitCheckpoint

		if err := p.read("checkpoints", id, &checkpoint); err != nil {
			return nil, err
		}

		if checkpoint.IsDue(now) {
			due = append(due, &checkpoint)
		}
	}

	return due, nil
}

func (p *Persistence) DeleteCheckpoint(_ context.Context, executionID string) error {
	err := os.Remove(p.path("checkpoints", executionID))
	if errors.Is(err, fs.ErrNotExist) {
		return persistence.ErrCheckpointNotFound
	}

	return err
}

func (p *Persistence) HealthCheck(_ context.Context) error {
	info, err := os.Stat(p.root)
	if err != nil {
		return fmt.Errorf("persistence root unavailable: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("persistence root %s is not a directory", p.root)
	}

	return nil
}

func (p *Persistence) Close(_ context.Context) error { return nil }

func (p *Persistence) path(sub, id string) string {
	return filepath.Join(p.root, sub, id+".json")
}

func (p *Persistence) listIDs(sub string) ([]string, error) {
	files, err := fs.Glob(os.DirFS(filepath.Join(p.root, sub)), "*.json")
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(files))
	for _, file := range files {
		ids = append(ids, file[:len(file)-len(".json")])
	}

	return ids, nil
}

func (p *Persistence) read(sub, id string, out any) error {
	body, err := os.ReadFile(p.path(sub, id))
	if err != nil {
		return err
	}

	return json.Unmarshal(body, out)
}

func (p *Persistence) write(sub, id string, record any) error {
	body, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(p.path(sub, id), body, 0o644)
}
