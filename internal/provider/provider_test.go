package provider

import (
	"encoding/json"
	"testing"
)

// --- Provider metadata tests ---

func TestOpenAIProvider_Metadata(t *testing.T) {
	p := &OpenAIProvider{model: "gpt-4o", name: "openai"}
	if p.Name() != "openai" {
		t.Errorf("expected name 'openai', got %q", p.Name())
	}
	if p.DefaultModel() != "gpt-4o" {
		t.Errorf("expected model 'gpt-4o', got %q", p.DefaultModel())
	}
}

func TestAnthropicProvider_Metadata(t *testing.T) {
	p := &AnthropicProvider{model: "claude-sonnet-4-20250514"}
	if p.Name() != "anthropic" {
		t.Errorf("expected name 'anthropic', got %q", p.Name())
	}
	if p.DefaultModel() != "claude-sonnet-4-20250514" {
		t.Errorf("expected model 'claude-sonnet-4-20250514', got %q", p.DefaultModel())
	}
}

// --- OpenAI provider name detection ---

func TestOpenAIProvider_NameDetection(t *testing.T) {
	tests := []struct {
		baseURL  string
		expected string
	}{
		{"", "openai"},
		{GroqBaseURL, "groq"},
		{GeminiBaseURL, "gemini"},
		{"https://custom.api.com/v1", "openai"},
	}
	for _, tt := range tests {
		p := NewOpenAIProvider("test-key", tt.baseURL, "test-model")
		if p.Name() != tt.expected {
			t.Errorf("baseURL=%q: expected name %q, got %q", tt.baseURL, tt.expected, p.Name())
		}
	}
}

// --- Constructor defaults ---

func TestNewGroq_Defaults(t *testing.T) {
	p := NewGroq("test-key", "")
	if p.Name() != "groq" {
		t.Errorf("expected name 'groq', got %q", p.Name())
	}
	if p.DefaultModel() != "llama-3.3-70b-versatile" {
		t.Errorf("expected default Groq model, got %q", p.DefaultModel())
	}

	p = NewGroq("test-key", "llama-3.1-8b-instant")
	if p.DefaultModel() != "llama-3.1-8b-instant" {
		t.Errorf("explicit model not preserved, got %q", p.DefaultModel())
	}
}

func TestNewGemini_Defaults(t *testing.T) {
	p := NewGemini("test-key", "")
	if p.Name() != "gemini" {
		t.Errorf("expected name 'gemini', got %q", p.Name())
	}
	if p.DefaultModel() != "gemini-2.0-flash-exp" {
		t.Errorf("expected default Gemini model, got %q", p.DefaultModel())
	}
}

func TestNewAnthropic_Defaults(t *testing.T) {
	p := NewAnthropic("test-key", "")
	if p.Name() != "anthropic" {
		t.Errorf("expected name 'anthropic', got %q", p.Name())
	}
	if p.DefaultModel() != "claude-sonnet-4-20250514" {
		t.Errorf("expected default Anthropic model, got %q", p.DefaultModel())
	}
}

// --- Message/Content types ---

func TestContentTypes(t *testing.T) {
	if ContentTypeText != "text" {
		t.Errorf("expected 'text', got %q", ContentTypeText)
	}
	if ContentTypeToolUse != "tool_use" {
		t.Errorf("expected 'tool_use', got %q", ContentTypeToolUse)
	}
	if ContentTypeToolResult != "tool_result" {
		t.Errorf("expected 'tool_result', got %q", ContentTypeToolResult)
	}
}

func TestUserText(t *testing.T) {
	msg := UserText("hello")
	if msg.Role != RoleUser {
		t.Errorf("expected role 'user', got %q", msg.Role)
	}
	if len(msg.Content) != 1 || msg.Content[0].Text != "hello" {
		t.Errorf("unexpected content: %+v", msg.Content)
	}
}

// --- OpenAI message/tool conversion ---

func conversation() []Message {
	return []Message{
		UserText("what's on my calendar today?"),
		{
			Role: RoleAssistant,
			Content: []Content{
				{Type: ContentTypeText, Text: "Let me check."},
				{
					Type:      ContentTypeToolUse,
					ToolUseID: "call_1",
					ToolName:  "list_events",
					ToolInput: json.RawMessage(`{"days":1}`),
				},
			},
		},
		{
			Role: RoleUser,
			Content: []Content{
				{Type: ContentTypeToolResult, ToolUseID: "call_1", ToolResult: "No events found."},
			},
		},
	}
}

func TestOpenAIProvider_BuildMessages(t *testing.T) {
	p := &OpenAIProvider{name: "openai"}
	req := &ChatRequest{
		SystemPrompt: "You are a helpful assistant.",
		Messages:     conversation(),
	}

	msgs := p.buildMessages(req)
	if len(msgs) != 4 {
		t.Fatalf("expected 4 messages (system + 3), got %d", len(msgs))
	}
	if msgs[0].OfSystem == nil {
		t.Error("expected first message to be a system message")
	}
	if msgs[1].OfUser == nil {
		t.Error("expected second message to be a user message")
	}

	assistant := msgs[2].OfAssistant
	if assistant == nil {
		t.Fatal("expected third message to be an assistant message")
	}
	if len(assistant.ToolCalls) != 1 {
		t.Fatalf("expected 1 tool call, got %d", len(assistant.ToolCalls))
	}
	if assistant.ToolCalls[0].ID != "call_1" {
		t.Errorf("expected tool call ID 'call_1', got %q", assistant.ToolCalls[0].ID)
	}
	if assistant.ToolCalls[0].Function.Name != "list_events" {
		t.Errorf("expected tool name 'list_events', got %q", assistant.ToolCalls[0].Function.Name)
	}
	if assistant.ToolCalls[0].Function.Arguments != `{"days":1}` {
		t.Errorf("unexpected arguments: %q", assistant.ToolCalls[0].Function.Arguments)
	}

	toolMsg := msgs[3].OfTool
	if toolMsg == nil {
		t.Fatal("expected fourth message to be a tool result message")
	}
	if toolMsg.ToolCallID != "call_1" {
		t.Errorf("expected tool call ID 'call_1', got %q", toolMsg.ToolCallID)
	}
}

func TestOpenAIProvider_BuildTools(t *testing.T) {
	p := &OpenAIProvider{name: "openai"}
	tools := p.buildTools([]ToolSchema{
		{
			Name:        "send_email",
			Description: "Send an email.",
			Parameters: map[string]any{
				"to":      map[string]any{"type": "string"},
				"subject": map[string]any{"type": "string"},
			},
			Required: []string{"to", "subject"},
		},
		{
			Name:        "list_events",
			Description: "List calendar events.",
			Parameters:  map[string]any{"days": map[string]any{"type": "integer"}},
		},
	})

	if len(tools) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(tools))
	}
	if tools[0].Function.Name != "send_email" {
		t.Errorf("expected 'send_email', got %q", tools[0].Function.Name)
	}

	params := tools[0].Function.Parameters
	if params["type"] != "object" {
		t.Errorf("expected parameters type 'object', got %v", params["type"])
	}
	if _, ok := params["properties"]; !ok {
		t.Error("expected 'properties' key in parameters")
	}
	req, ok := params["required"].([]string)
	if !ok || len(req) != 2 {
		t.Errorf("expected 2 required fields, got %v", params["required"])
	}

	// Optional-only tools must not claim required fields.
	if _, ok := tools[1].Function.Parameters["required"]; ok {
		t.Error("did not expect 'required' key for list_events")
	}
}

// --- Anthropic message/tool conversion ---

func TestAnthropicProvider_BuildMessages(t *testing.T) {
	p := &AnthropicProvider{}
	msgs := p.buildMessages(conversation())

	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	if msgs[0].Role != "user" {
		t.Errorf("expected first role 'user', got %q", msgs[0].Role)
	}
	if msgs[1].Role != "assistant" {
		t.Errorf("expected second role 'assistant', got %q", msgs[1].Role)
	}

	if len(msgs[0].Content) != 1 || msgs[0].Content[0].OfText == nil {
		t.Fatal("expected first message to hold one text block")
	}
	if got := msgs[0].Content[0].OfText.Text; got != "what's on my calendar today?" {
		t.Errorf("unexpected text: %q", got)
	}

	if len(msgs[1].Content) != 2 {
		t.Fatalf("expected 2 assistant blocks, got %d", len(msgs[1].Content))
	}
	toolUse := msgs[1].Content[1].OfToolUse
	if toolUse == nil {
		t.Fatal("expected second assistant block to be tool use")
	}
	if toolUse.ID != "call_1" || toolUse.Name != "list_events" {
		t.Errorf("unexpected tool use: ID=%q Name=%q", toolUse.ID, toolUse.Name)
	}

	toolResult := msgs[2].Content[0].OfToolResult
	if toolResult == nil {
		t.Fatal("expected third message to hold a tool result block")
	}
	if toolResult.ToolUseID != "call_1" {
		t.Errorf("expected tool use ID 'call_1', got %q", toolResult.ToolUseID)
	}
}

func TestAnthropicProvider_BuildTools(t *testing.T) {
	p := &AnthropicProvider{}
	tools := p.buildTools([]ToolSchema{
		{
			Name:        "delete_calendar_event",
			Description: "Delete a calendar event.",
			Parameters:  map[string]any{"event_id": map[string]any{"type": "string"}},
			Required:    []string{"event_id"},
		},
	})

	if len(tools) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(tools))
	}
	tool := tools[0].OfTool
	if tool == nil {
		t.Fatal("expected a plain tool param")
	}
	if tool.Name != "delete_calendar_event" {
		t.Errorf("expected 'delete_calendar_event', got %q", tool.Name)
	}
	if len(tool.InputSchema.Required) != 1 || tool.InputSchema.Required[0] != "event_id" {
		t.Errorf("unexpected required list: %v", tool.InputSchema.Required)
	}
}
