package agent

import (
	"context"
	"fmt"

	"github.com/donna-ai/donna/internal/provider"
	"github.com/donna-ai/donna/internal/review"
	"github.com/donna-ai/donna/internal/tools"
)

// maxToolIterations bounds how many model/tool rounds a single
// delegation or supervisor turn may take.
const maxToolIterations = 10

// subAgent runs a bounded tool loop over one domain's tool subset.
// Each delegation starts a fresh message thread; conversation memory
// lives with the supervisor.
type subAgent struct {
	name         string
	model        string
	temperature  float64
	provider     provider.Provider
	gate         *review.Gate
	schemas      []provider.ToolSchema
	systemPrompt func() string
	fallback     string
	onUsage      func(provider.Usage)
}

func (a *subAgent) run(ctx context.Context, request string) (string, error) {
	temp := a.temperature
	messages := []provider.Message{provider.UserText(request)}

	for range maxToolIterations {
		resp, err := a.provider.Chat(ctx, &provider.ChatRequest{
			Model:        a.model,
			Messages:     messages,
			Tools:        a.schemas,
			SystemPrompt: a.systemPrompt(),
			Temperature:  &temp,
		})
		if err != nil {
			return "", fmt.Errorf("%s agent: %w", a.name, err)
		}
		if a.onUsage != nil {
			a.onUsage(resp.Usage)
		}

		messages = append(messages, assistantMessage(resp))
		if len(resp.ToolCalls) == 0 {
			if resp.Text == "" {
				return a.fallback, nil
			}
			return resp.Text, nil
		}

		results := make([]provider.Content, 0, len(resp.ToolCalls))
		for _, call := range resp.ToolCalls {
			result, err := a.dispatch(ctx, call)
			if err != nil {
				return "", err
			}
			results = append(results, provider.Content{
				Type:       provider.ContentTypeToolResult,
				ToolUseID:  call.ID,
				ToolResult: result.Content,
				IsError:    result.IsError,
			})
		}
		messages = append(messages, provider.Message{Role: provider.RoleUser, Content: results})
	}
	return "", fmt.Errorf("%s agent: no answer after %d tool rounds", a.name, maxToolIterations)
}

// dispatch routes one model tool call through the review gate. A call
// outside the agent's domain goes back to the model as an error result
// so it can correct itself; gate and adapter errors end the turn.
func (a *subAgent) dispatch(ctx context.Context, call provider.ToolCallRequest) (*tools.Result, error) {
	name := tools.Name(call.Name)
	if !name.Valid() || name.Category() != a.name {
		return tools.NewErrorResult(fmt.Sprintf("Error: tool %q is not available to the %s agent", call.Name, a.name)), nil
	}

	inv := tools.NewInvocation(name, call.Input)
	decision, err := a.gate.Submit(ctx, inv)
	if err != nil {
		return nil, err
	}
	outcome, err := a.gate.Execute(ctx, inv, decision)
	if err != nil {
		return nil, err
	}
	if outcome.Rejection != nil {
		return tools.NewTextResult(outcome.Rejection.Message()), nil
	}
	return outcome.Result, nil
}

// assistantMessage rebuilds the model's reply as a history message.
func assistantMessage(resp *provider.ChatResponse) provider.Message {
	var contents []provider.Content
	if resp.Text != "" {
		contents = append(contents, provider.Content{Type: provider.ContentTypeText, Text: resp.Text})
	}
	for _, tc := range resp.ToolCalls {
		contents = append(contents, provider.Content{
			Type:      provider.ContentTypeToolUse,
			ToolUseID: tc.ID,
			ToolName:  tc.Name,
			ToolInput: tc.Input,
		})
	}
	return provider.Message{Role: provider.RoleAssistant, Content: contents}
}
