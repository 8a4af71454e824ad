// Package web provides the REST API for workflow management and manual
// execution.
package web

import (
	"encoding/json"

	"github.com/flowlinehq/flowline/pkg/services"
	"github.com/gofiber/fiber/v3"
)

// APIHandlers holds the HTTP handlers for the workflow API.
type APIHandlers struct {
	workflowService  *services.Workflow
	executionService *services.Execution
}

// NewAPIHandlers creates the API handler set.
func NewAPIHandlers(workflowService *services.Workflow, executionService *services.Execution) *APIHandlers {
	return &APIHandlers{
		workflowService:  workflowService,
		executionService: executionService,
	}
}

// RegisterRoutes mounts the API routes on a fiber application.
func (h *APIHandlers) RegisterRoutes(app *fiber.App) {
	app.Get("/health", h.GetHealth)
	app.Get("/workflows", h.GetWorkflows)
	app.Post("/workflows", h.CreateWorkflow)
	app.Get("/workflows/:id", h.GetWorkflow)
	app.Put("/workflows/:id", h.UpdateWorkflow)
	app.Delete("/workflows/:id", h.DeleteWorkflow)
	app.Post("/workflows/:id/run", h.RunWorkflow)
}

func (h *APIHandlers) GetHealth(c fiber.Ctx) error {
	message, healthy := h.workflowService.HealthCheck(c.Context())
	if !healthy {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unhealthy", "message": message})
	}

	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	workflows, err := h.workflowService.List(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"workflows": workflows})
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	workflow, err := h.workflowService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(workflow)
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	var req WorkflowRequest

	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	workflow, err := h.workflowService.Create(c.Context(), req.ToModel())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(workflow)
}

func (h *APIHandlers) UpdateWorkflow(c fiber.Ctx) error {
	var req WorkflowRequest

	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	workflow, err := h.workflowService.Update(c.Context(), c.Params("id"), req.ToModel())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(workflow)
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	if err := h.workflowService.Delete(c.Context(), c.Params("id")); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) RunWorkflow(c fiber.Ctx) error {
	var req RunWorkflowRequest

	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return badRequest(c, "Invalid request body: "+err.Error())
		}
	}

	result, err := h.executionService.Run(c.Context(), c.Params("id"), req.TriggerData)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(result)
}
