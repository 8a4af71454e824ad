// Package memory provides an in-memory persistence implementation used by
// tests and single-process deployments.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/flowlinehq/flowline/pkg/models"
	"github.com/flowlinehq/flowline/pkg/persistence"
)

// Store keeps workflows, credentials, and checkpoints in process memory,
// guarded by a single mutex. Nothing survives a restart.
type Store struct {
	mu          sync.RWMutex
	workflows   map[string]*models.Workflow
	credentials map[string]*models.Credential
	checkpoints map[string]*models.WaitCheckpoint
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		workflows:   make(map[string]*models.Workflow),
		credentials: make(map[string]*models.Credential),
		checkpoints: make(map[string]*models.WaitCheckpoint),
	}
}

func (s *Store) Workflows(_ context.Context) ([]*models.Workflow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	workflows := make([]*models.Workflow, 0, len(s.workflows))
	for _, workflow := range s.workflows {
		workflows = append(workflows, workflow)
	}

	return workflows, nil
}

func (s *Store) WorkflowByID(_ context.Context, id string) (*models.Workflow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	workflow, ok := s.workflows[id]
	if !ok {
		return nil, persistence.ErrWorkflowNotFound
	}

	return workflow, nil
}

func (s *Store) SaveWorkflow(_ context.Context, workflow *models.Workflow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.workflows[workflow.ID] = workflow

	return nil
}

func (s *Store) DeleteWorkflow(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.workflows[id]; !ok {
		return persistence.ErrWorkflowNotFound
	}

	delete(s.workflows, id)

	return nil
}

func (s *Store) CredentialByID(_ context.Context, id string) (*models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	credential, ok := s.credentials[id]
	if !ok {
		return nil, persistence.ErrCredentialNotFound
	}

	return credential, nil
}

func (s *Store) SaveCredential(_ context.Context, credential *models.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.credentials[credential.ID] = credential

	return nil
}

func (s *Store) SaveCheckpoint(_ context.Context, checkpoint *models.WaitCheckpoint) error {
	if err := checkpoint.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.checkpoints[checkpoint.ExecutionID] = checkpoint

	return nil
}

func (s *Store) DueCheckpoints(_ context.Context, now time.Time) ([]*models.WaitCheckpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	due := make([]*models.WaitCheckpoint, 0)

	for _, checkpoint := range s.checkpoints {
		if checkpoint.IsDue(now) {
			due = append(due, checkpoint)
		}
	}

	return due, nil
}

func (s *Store) DeleteCheckpoint(_ context.Context, executionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.checkpoints[executionID]; !ok {
		return persistence.ErrCheckpointNotFound
	}

	delete(s.checkpoints, executionID)

	return nil
}

func (s *Store) HealthCheck(_ context.Context) error { return nil }

func (s *Store) Close(_ context.Context) error { return nil }
