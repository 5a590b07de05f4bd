// Package agent implements the supervisor/sub-agent orchestration: a
// coordinating model routes each user turn to a calendar agent and an
// email agent, which carry out tool calls through the review gate.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/donna-ai/donna/internal/logging"
	"github.com/donna-ai/donna/internal/provider"
	"github.com/donna-ai/donna/internal/review"
	"github.com/donna-ai/donna/internal/session"
	"github.com/donna-ai/donna/internal/tools"
)

const defaultAssistantName = "Donna"

// Supervisor owns one conversation: it keeps the session history,
// consults the model with the two delegation tools, and folds
// sub-agent results back in until the model produces a final reply.
type Supervisor struct {
	provider  provider.Provider
	model     string
	gate      *review.Gate
	session   *session.Session
	userName  string
	userEmail string
	loc       *time.Location
	assistant string
	logger    *slog.Logger
	now       func() time.Time

	calendar *subAgent
	email    *subAgent
}

// Params configures a Supervisor. Provider and Gate are required; the
// rest defaults sensibly.
type Params struct {
	Provider      provider.Provider
	Model         string
	Gate          *review.Gate
	Session       *session.Session
	UserName      string
	UserEmail     string
	Location      *time.Location
	AssistantName string
	Logger        *slog.Logger
	Now           func() time.Time
}

func NewSupervisor(p Params) *Supervisor {
	if p.AssistantName == "" {
		p.AssistantName = defaultAssistantName
	}
	if p.Session == nil {
		p.Session = session.New()
	}
	if p.Location == nil {
		p.Location = time.Local
	}
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
	if p.Now == nil {
		p.Now = time.Now
	}

	s := &Supervisor{
		provider:  p.Provider,
		model:     p.Model,
		gate:      p.Gate,
		session:   p.Session,
		userName:  p.UserName,
		userEmail: p.UserEmail,
		loc:       p.Location,
		assistant: p.AssistantName,
		logger:    p.Logger,
		now:       p.Now,
	}
	s.calendar = &subAgent{
		name:         "calendar",
		model:        p.Model,
		temperature:  calendarTemperature,
		provider:     p.Provider,
		gate:         p.Gate,
		schemas:      tools.CalendarSchemas(),
		systemPrompt: func() string { return calendarPrompt(s.now().In(s.loc), s.loc) },
		fallback:     "Calendar operation completed.",
		onUsage:      s.session.AddUsage,
	}
	s.email = &subAgent{
		name:         "email",
		model:        p.Model,
		temperature:  emailTemperature,
		provider:     p.Provider,
		gate:         p.Gate,
		schemas:      tools.EmailSchemas(),
		systemPrompt: func() string { return emailPrompt(s.userName, s.userEmail) },
		fallback:     "Email operation completed.",
		onUsage:      s.session.AddUsage,
	}
	return s
}

// Session exposes the conversation state for status displays.
func (s *Supervisor) Session() *session.Session { return s.session }

// Reset starts a new conversation thread and clears review history.
func (s *Supervisor) Reset() {
	s.session.Clear()
	s.gate.Reset()
}

// HandleRequest runs one user turn. The utterance joins the session
// history, the model is consulted with the delegation tools, and each
// delegation runs its own tool loop. Gate and adapter errors fail the
// turn; the session survives and the next turn starts clean.
func (s *Supervisor) HandleRequest(ctx context.Context, text string) (string, error) {
	s.session.AddMessage(provider.UserText(text))

	temp := supervisorTemperature
	for range maxToolIterations {
		resp, err := s.provider.Chat(ctx, &provider.ChatRequest{
			Model:        s.model,
			Messages:     s.session.Messages,
			Tools:        delegationSchemas(),
			SystemPrompt: supervisorPrompt(s.assistant, s.now().In(s.loc), s.userName, s.userEmail),
			Temperature:  &temp,
		})
		if err != nil {
			return "", fmt.Errorf("supervisor: %w", err)
		}
		s.session.AddUsage(resp.Usage)
		s.session.AddMessage(assistantMessage(resp))

		if len(resp.ToolCalls) == 0 {
			if resp.Text == "" {
				return "Request completed.", nil
			}
			return resp.Text, nil
		}

		var turnErr error
		results := make([]provider.Content, 0, len(resp.ToolCalls))
		for _, call := range resp.ToolCalls {
			if turnErr != nil {
				results = append(results, errorResult(call.ID, "not executed; an earlier action failed"))
				continue
			}
			reply, err := s.delegate(ctx, call)
			if err != nil {
				turnErr = err
				results = append(results, errorResult(call.ID, err.Error()))
				continue
			}
			results = append(results, provider.Content{
				Type:       provider.ContentTypeToolResult,
				ToolUseID:  call.ID,
				ToolResult: reply,
			})
		}
		s.session.AddMessage(provider.Message{Role: provider.RoleUser, Content: results})
		if turnErr != nil {
			return "", turnErr
		}
	}
	return "", fmt.Errorf("supervisor: no answer after %d delegation rounds", maxToolIterations)
}

// delegate hands one delegation tool call to the matching sub-agent.
// An unknown capability goes back to the model as an error result.
func (s *Supervisor) delegate(ctx context.Context, call provider.ToolCallRequest) (string, error) {
	var params struct {
		Request string `json:"request"`
	}
	if len(call.Input) > 0 {
		if err := json.Unmarshal(call.Input, &params); err != nil {
			return fmt.Sprintf("Error: invalid request arguments: %v", err), nil
		}
	}

	s.logger.Debug("delegating request", logging.Agent(call.Name))
	switch call.Name {
	case "calendar_agent":
		return s.calendar.run(ctx, s.calendarContext(params.Request))
	case "email_agent":
		return s.email.run(ctx, params.Request)
	}
	return fmt.Sprintf("Error: unknown capability %q", call.Name), nil
}

// calendarContext prefixes the current datetime so the scheduling
// model can resolve relative dates.
func (s *Supervisor) calendarContext(request string) string {
	return fmt.Sprintf("Current datetime: %s\n\nUser request: %s", formatDateTime(s.now().In(s.loc)), request)
}

func errorResult(toolUseID, text string) provider.Content {
	return provider.Content{
		Type:       provider.ContentTypeToolResult,
		ToolUseID:  toolUseID,
		ToolResult: "Error: " + text,
		IsError:    true,
	}
}

// delegationSchemas describes the two sub-agents as tools for the
// supervisor model.
func delegationSchemas() []provider.ToolSchema {
	request := func(desc string) map[string]any {
		return map[string]any{
			"request": map[string]any{"type": "string", "description": desc},
		}
	}
	return []provider.ToolSchema{
		{
			Name: "calendar_agent",
			Description: "Schedule and manage calendar events using natural language. " +
				"Use it to create, update or delete appointments, check availability, and view upcoming events.",
			Parameters: request(`Natural language scheduling request, e.g. "Schedule a team meeting tomorrow at 2pm"`),
			Required:   []string{"request"},
		},
		{
			Name: "email_agent",
			Description: "Compose and send emails using natural language. " +
				"Use it to send emails, create drafts, search the inbox and contacts, and read email content.",
			Parameters: request(`Natural language email request, e.g. "Send a meeting reminder to john@example.com"`),
			Required:   []string{"request"},
		},
	}
}
