// Package sendemail implements the send-email step executor. Recipient,
// sender, subject, and body all accept {{var}} placeholders resolved
// against the data context.
package sendemail

import (
	"context"
	"log/slog"
	"strings"

	"github.com/flowlinehq/flowline/pkg/models"
	"github.com/flowlinehq/flowline/pkg/protocol"
	"github.com/flowlinehq/flowline/pkg/template"
	"github.com/flowlinehq/flowline/pkg/transport"
)

// Factory creates send-email executors bound to an email transport.
type Factory struct {
	transport transport.EmailTransport
}

// NewFactory creates a send-email step factory.
func NewFactory(emailTransport transport.EmailTransport) *Factory {
	return &Factory{transport: emailTransport}
}

func (f *Factory) Kind() models.StepKind { return models.StepKindSendEmail }

func (f *Factory) Create(config map[string]any) (protocol.StepExecutor, error) {
	executor := &Executor{transport: f.transport}

	if config != nil {
		executor.to, _ = config["to"].(string)
		executor.from, _ = config["from"].(string)
		executor.subject, _ = config["subject"].(string)
		executor.body, _ = config["body"].(string)
	}

	return executor, nil
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"to":      map[string]any{"type": "string"},
			"from":    map[string]any{"type": "string"},
			"subject": map[string]any{"type": "string"},
			"body":    map[string]any{"type": "string"},
		},
	}
}

// Executor resolves the message fields and hands the composed message to
// the transport.
type Executor struct {
	to        string
	from      string
	subject   string
	body      string
	transport transport.EmailTransport
}

func (e *Executor) Execute(ctx context.Context, executionCtx *models.ExecutionContext, logger *slog.Logger) (any, error) {
	message := transport.EmailMessage{
		To:      template.Substitute(e.to, executionCtx.Data),
		From:    template.Substitute(e.from, executionCtx.Data),
		Subject: template.Substitute(e.subject, executionCtx.Data),
		Body:    template.Substitute(e.body, executionCtx.Data),
	}

	if strings.TrimSpace(message.To) == "" {
		logger.Warn("Recipient resolved to empty, skipping email")

		return map[string]any{
			"success": false,
			"note":    "recipient is empty after substitution",
		}, nil
	}

	result, err := e.transport.Send(ctx, message)
	if err != nil {
		return nil, err
	}

	logger.Info("Email sent", "message_id", result.MessageID, "to", message.To)

	return map[string]any{
		"success":    result.Success,
		"message_id": result.MessageID,
	}, nil
}
