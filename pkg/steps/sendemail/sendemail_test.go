package sendemail

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/flowlinehq/flowline/pkg/models"
	"github.com/flowlinehq/flowline/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmailTransport struct {
	sent []transport.EmailMessage
	err  error
}

func (f *fakeEmailTransport) Send(_ context.Context, message transport.EmailMessage) (transport.SendResult, error) {
	if f.err != nil {
		return transport.SendResult{}, f.err
	}

	f.sent = append(f.sent, message)

	return transport.SendResult{Success: true, MessageID: "msg-test"}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExecutor_SubstitutesAndSends(t *testing.T) {
	fake := &fakeEmailTransport{}

	executor, err := NewFactory(fake).Create(map[string]any{
		"to":      "{{trigger.email}}",
		"from":    "noreply@flowline.dev",
		"subject": "Order {{order.id}} shipped",
		"body":    "Hi {{trigger.name}}, your order is on its way.",
	})
	require.NoError(t, err)

	executionCtx := models.NewExecutionContext("wf-1", map[string]any{
		"email": "a@b.com",
		"name":  "Al",
	})
	executionCtx.Merge("order", map[string]any{"id": "ord-42"})

	result, err := executor.Execute(context.Background(), executionCtx, testLogger())
	require.NoError(t, err)

	require.Len(t, fake.sent, 1)
	assert.Equal(t, "a@b.com", fake.sent[0].To)
	assert.Equal(t, "Order ord-42 shipped", fake.sent[0].Subject)
	assert.Equal(t, "Hi Al, your order is on its way.", fake.sent[0].Body)

	resultMap := result.(map[string]any)
	assert.Equal(t, true, resultMap["success"])
	assert.Equal(t, "msg-test", resultMap["message_id"])
}

func TestExecutor_EmptyRecipientSkips(t *testing.T) {
	fake := &fakeEmailTransport{}

	executor, err := NewFactory(fake).Create(map[string]any{
		"to":      "{{trigger.missing}}",
		"subject": "hi",
	})
	require.NoError(t, err)

	// An unresolved placeholder survives substitution verbatim, so use a
	// value that actually resolves to empty.
	executionCtx := models.NewExecutionContext("wf-1", map[string]any{"missing": "  "})

	result, err := executor.Execute(context.Background(), executionCtx, testLogger())
	require.NoError(t, err)

	assert.Empty(t, fake.sent)

	resultMap := result.(map[string]any)
	assert.Equal(t, false, resultMap["success"])
	assert.Equal(t, "recipient is empty after substitution", resultMap["note"])
}

func TestExecutor_TransportErrorIsFault(t *testing.T) {
	fake := &fakeEmailTransport{err: errors.New("smtp down")}

	executor, err := NewFactory(fake).Create(map[string]any{"to": "a@b.com"})
	require.NoError(t, err)

	_, err = executor.Execute(context.Background(), models.NewExecutionContext("wf-1", nil), testLogger())
	assert.EqualError(t, err, "smtp down")
}

func TestLogTransportRoundTrip(t *testing.T) {
	executor, err := NewFactory(transport.NewLogEmailTransport(testLogger())).Create(map[string]any{
		"to": "a@b.com",
	})
	require.NoError(t, err)

	result, err := executor.Execute(context.Background(), models.NewExecutionContext("wf-1", nil), testLogger())
	require.NoError(t, err)

	resultMap := result.(map[string]any)
	assert.Equal(t, true, resultMap["success"])
	assert.NotEmpty(t, resultMap["message_id"])
}
