// Package transport holds the external collaborator implementations used
// by step executors: email delivery and database query execution.
package transport

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// EmailMessage is a fully resolved outbound email.
type EmailMessage struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// SendResult reports the outcome of a delivery attempt.
type SendResult struct {
	Success   bool   `json:"success"`
	MessageID string `json:"message_id"`
}

// EmailTransport delivers email messages.
type EmailTransport interface {
	Send(ctx context.Context, message EmailMessage) (SendResult, error)
}

// LogEmailTransport is a delivery simulator: it logs the composed message
// and returns a synthetic message id.
type LogEmailTransport struct {
	logger *slog.Logger
}

// NewLogEmailTransport creates a logging email simulator.
func NewLogEmailTransport(logger *slog.Logger) *LogEmailTransport {
	return &LogEmailTransport{logger: logger.With("module", "email_transport")}
}

func (t *LogEmailTransport) Send(_ context.Context, message EmailMessage) (SendResult, error) {
	messageID := "msg-" + uuid.New().String()[:8]

	t.logger.Info("Sending email",
		"message_id", messageID,
		"to", message.To,
		"from", message.From,
		"subject", message.Subject,
		"body_length", len(message.Body),
	)

	return SendResult{Success: true, MessageID: messageID}, nil
}
