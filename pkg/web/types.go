package web

import "github.com/flowlinehq/flowline/pkg/models"

// RunWorkflowRequest is the body of the execute endpoint. TriggerData
// overrides the trigger step's configured event payload when present.
type RunWorkflowRequest struct {
	TriggerData map[string]any `json:"trigger_data"`
}

// WorkflowRequest is the body of the create and update endpoints.
type WorkflowRequest struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Status      models.WorkflowStatus  `json:"status"`
	Steps       []*models.WorkflowStep `json:"steps"`
}

// ToModel converts the request body to a domain workflow.
func (r *WorkflowRequest) ToModel() *models.Workflow {
	return &models.Workflow{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Status:      r.Status,
		Steps:       r.Steps,
	}
}
