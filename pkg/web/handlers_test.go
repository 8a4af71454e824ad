package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flowlinehq/flowline/pkg/engine"
	"github.com/flowlinehq/flowline/pkg/models"
	"github.com/flowlinehq/flowline/pkg/persistence/memory"
	"github.com/flowlinehq/flowline/pkg/registry"
	"github.com/flowlinehq/flowline/pkg/services"
	"github.com/flowlinehq/flowline/pkg/steps/sendemail"
	"github.com/flowlinehq/flowline/pkg/transport"
	"github.com/flowlinehq/flowline/pkg/web"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T) (*fiber.App, *services.Workflow) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()

	reg := registry.NewRegistry(logger)
	reg.Register(sendemail.NewFactory(transport.NewLogEmailTransport(logger)))

	workflowService := services.NewWorkflow(store)
	executionService := services.NewExecution(engine.New(reg, nil, logger), store)

	app := fiber.New()
	web.NewAPIHandlers(workflowService, executionService).RegisterRoutes(app)

	return app, workflowService
}

func workflowBody() web.WorkflowRequest {
	return web.WorkflowRequest{
		Name: "Welcome Flow",
		Steps: []*models.WorkflowStep{
			{ID: "step-1", Kind: models.StepKindTrigger, Title: "Trigger"},
			{
				ID:     "step-2",
				Kind:   models.StepKindSendEmail,
				Title:  "Send Email",
				Config: map[string]any{"to": "{{trigger.email}}"},
			},
		},
	}
}

func TestCreateWorkflow(t *testing.T) {
	app, _ := setupTestApp(t)

	body, err := json.Marshal(workflowBody())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/workflows", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Workflow
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Welcome Flow", created.Name)
	assert.Equal(t, models.WorkflowStatusDraft, created.Status)
}

func TestCreateWorkflow_ValidationError(t *testing.T) {
	app, _ := setupTestApp(t)

	invalid := workflowBody()
	invalid.Steps = invalid.Steps[1:]

	body, err := json.Marshal(invalid)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/workflows", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetWorkflow_NotFound(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/workflows/nope", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteWorkflow(t *testing.T) {
	app, workflowService := setupTestApp(t)

	wfBody := workflowBody()
	created, err := workflowService.Create(context.Background(), wfBody.ToModel())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/workflows/"+created.ID, nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	req = httptest.NewRequest(http.MethodDelete, "/workflows/"+created.ID, nil)

	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRunWorkflow(t *testing.T) {
	app, workflowService := setupTestApp(t)

	wfBody := workflowBody()
	created, err := workflowService.Create(context.Background(), wfBody.ToModel())
	require.NoError(t, err)

	body, err := json.Marshal(web.RunWorkflowRequest{
		TriggerData: map[string]any{"email": "a@b.com"},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/workflows/"+created.ID+"/run", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result models.RunResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))

	assert.True(t, result.Success)
	assert.Equal(t, "Workflow completed", result.Message)
	assert.Contains(t, result.Context, "step-2")
}

func TestHealth(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
