package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donna-ai/donna/internal/review"
	"github.com/donna-ai/donna/internal/tools"
)

type recordingInvoker struct {
	result *tools.Result
	err    error
	calls  atomic.Int32
	last   *tools.Invocation
}

func (i *recordingInvoker) Invoke(ctx context.Context, inv *tools.Invocation) (*tools.Result, error) {
	i.calls.Add(1)
	i.last = inv
	if i.err != nil {
		return nil, i.err
	}
	return i.result, nil
}

func callRequest(name tools.Name, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      string(name),
			Arguments: args,
		},
	}
}

// resultText extracts the text payload of a tool result.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "content is %T, want mcp.TextContent", result.Content[0])
	return text.Text
}

func TestNewBuildsServer(t *testing.T) {
	gate := review.NewGate(NewPolicyReviewer(false, nil), &recordingInvoker{})
	require.NotNil(t, New(gate, "1.0.0"))
}

func TestGateHandlerReadTool(t *testing.T) {
	invoker := &recordingInvoker{result: tools.NewTextResult("Upcoming events (next 3 days):")}
	gate := review.NewGate(NewPolicyReviewer(false, nil), invoker)
	handler := gateHandler(gate, tools.ListEvents)

	result, err := handler(context.Background(), callRequest(tools.ListEvents, map[string]any{"days": 3}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	assert.Contains(t, resultText(t, result), "Upcoming events")
	assert.EqualValues(t, 1, invoker.calls.Load())
}

func TestGateHandlerRejectedByPolicy(t *testing.T) {
	invoker := &recordingInvoker{}
	gate := review.NewGate(NewPolicyReviewer(false, nil), invoker)
	handler := gateHandler(gate, tools.SendEmail)

	result, err := handler(context.Background(), callRequest(tools.SendEmail, map[string]any{
		"to":      []any{"sarah@example.com"},
		"subject": "Quarterly sync",
		"body":    "See you Friday.",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, "a rejection is a normal outcome, not a tool error")

	text := resultText(t, result)
	assert.Contains(t, text, "rejected the send_email action")
	assert.Contains(t, text, "--yolo")
	assert.EqualValues(t, 0, invoker.calls.Load(), "invoker ran for a rejected action")
}

func TestGateHandlerYoloApproves(t *testing.T) {
	invoker := &recordingInvoker{result: tools.NewTextResult("Email sent successfully!")}
	gate := review.NewGate(NewPolicyReviewer(true, nil), invoker)
	handler := gateHandler(gate, tools.SendEmail)

	result, err := handler(context.Background(), callRequest(tools.SendEmail, map[string]any{
		"to":      "sarah@example.com",
		"subject": "Quarterly sync",
		"body":    "See you Friday.",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, "got error result: %s", resultText(t, result))
	assert.Contains(t, resultText(t, result), "Email sent successfully")

	// The bare-string recipient must reach the invoker as a list.
	require.NotNil(t, invoker.last)
	var p struct {
		To []string `json:"to"`
	}
	require.NoError(t, json.Unmarshal(invoker.last.Arguments, &p))
	assert.Equal(t, []string{"sarah@example.com"}, p.To)
}

func TestGateHandlerRejectsBadArguments(t *testing.T) {
	invoker := &recordingInvoker{}
	gate := review.NewGate(NewPolicyReviewer(true, nil), invoker)
	handler := gateHandler(gate, tools.SendEmail)

	result, err := handler(context.Background(), callRequest(tools.SendEmail, map[string]any{
		"to":   []any{"sarah@example.com"},
		"body": "See you Friday.",
	}))
	require.NoError(t, err)
	require.True(t, result.IsError)

	assert.Contains(t, resultText(t, result), "subject is required")
	assert.EqualValues(t, 0, invoker.calls.Load(), "invoker ran for invalid arguments")
}

func TestGateHandlerInvokerFailure(t *testing.T) {
	invoker := &recordingInvoker{err: errors.New("googleapi: Error 503: backend unavailable")}
	gate := review.NewGate(NewPolicyReviewer(false, nil), invoker)
	handler := gateHandler(gate, tools.SearchEmails)

	result, err := handler(context.Background(), callRequest(tools.SearchEmails, map[string]any{"query": "invoices"}))
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "backend unavailable")
}

func TestLiftListArguments(t *testing.T) {
	tests := []struct {
		name string
		tool tools.Name
		args map[string]any
		want map[string]any
	}{
		{
			name: "single string lifted",
			tool: tools.SendEmail,
			args: map[string]any{"to": "a@example.com"},
			want: map[string]any{"to": []any{"a@example.com"}},
		},
		{
			name: "empty string dropped",
			tool: tools.SendEmail,
			args: map[string]any{"to": "a@example.com", "cc": ""},
			want: map[string]any{"to": []any{"a@example.com"}},
		},
		{
			name: "array untouched",
			tool: tools.SendEmail,
			args: map[string]any{"to": []any{"a@example.com", "b@example.com"}},
			want: map[string]any{"to": []any{"a@example.com", "b@example.com"}},
		},
		{
			name: "tool without list arguments untouched",
			tool: tools.SearchEmails,
			args: map[string]any{"query": "to"},
			want: map[string]any{"query": "to"},
		},
		{
			name: "attendees lifted for scheduling",
			tool: tools.GetAvailableSlots,
			args: map[string]any{"date": "2026-03-10", "attendees": "sarah@example.com"},
			want: map[string]any{"date": "2026-03-10", "attendees": []any{"sarah@example.com"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			liftListArguments(tt.tool, tt.args)
			assert.Equal(t, tt.want, tt.args)
		})
	}
}
