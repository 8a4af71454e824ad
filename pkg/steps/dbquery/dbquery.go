// Package dbquery implements the database-query step executor: it looks up
// a stored credential, substitutes variables into the query string, and
// runs the query through the configured query runner.
package dbquery

import (
	"context"
	"log/slog"

	"github.com/flowlinehq/flowline/pkg/models"
	"github.com/flowlinehq/flowline/pkg/persistence"
	"github.com/flowlinehq/flowline/pkg/protocol"
	"github.com/flowlinehq/flowline/pkg/template"
	"github.com/flowlinehq/flowline/pkg/transport"
)

// Factory creates database-query executors bound to a credential store and
// a query runner.
type Factory struct {
	credentials protocol.CredentialStore
	runner      transport.QueryRunner
}

// NewFactory creates a database-query step factory.
func NewFactory(credentials protocol.CredentialStore, runner transport.QueryRunner) *Factory {
	return &Factory{credentials: credentials, runner: runner}
}

func (f *Factory) Kind() models.StepKind { return models.StepKindDatabaseQuery }

func (f *Factory) Create(config map[string]any) (protocol.StepExecutor, error) {
	executor := &Executor{credentials: f.credentials, runner: f.runner}

	if config != nil {
		executor.credentialID, _ = config["credential_id"].(string)
		executor.query, _ = config["query"].(string)
	}

	return executor, nil
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"credential_id": map[string]any{"type": "string"},
			"query":         map[string]any{"type": "string"},
		},
	}
}

// Executor runs the configured query. Missing credentials and transport
// failures are result data, not executor faults: a broken query step
// reports its problem and lets the run decide what to do with it.
type Executor struct {
	credentialID string
	query        string
	credentials  protocol.CredentialStore
	runner       transport.QueryRunner
}

func (e *Executor) Execute(ctx context.Context, executionCtx *models.ExecutionContext, logger *slog.Logger) (any, error) {
	credential, err := e.credentials.CredentialByID(ctx, e.credentialID)
	if err != nil {
		if persistence.IsCredentialNotFound(err) {
			logger.Warn("Credential not found, skipping query", "credential_id", e.credentialID)

			return map[string]any{
				"success": false,
				"error":   "credential not found",
			}, nil
		}

		return nil, err
	}

	resolved := template.Substitute(e.query, executionCtx.Data)

	rows, err := e.runner.Query(ctx, credential.DSN, resolved)
	if err != nil {
		logger.Warn("Query failed", "error", err)

		return map[string]any{
			"success": false,
			"error":   err.Error(),
		}, nil
	}

	logger.Info("Query executed", "rows", len(rows))

	return map[string]any{
		"success":   true,
		"rows":      rows,
		"row_count": len(rows),
	}, nil
}
