package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/donna-ai/donna/internal/review"
	"github.com/donna-ai/donna/internal/tools"
)

// New builds an MCP server exposing every assistant tool. Each call is
// validated, submitted to the gate for review and executed through it,
// so serve mode enforces the same approval rules as the chat surface.
func New(gate *review.Gate, version string) *server.MCPServer {
	s := server.NewMCPServer("donna", version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, false),
	)
	registerCalendarTools(s, gate)
	registerEmailTools(s, gate)
	registerResources(s, gate)
	return s
}

func registerCalendarTools(s *server.MCPServer, g *review.Gate) {
	listEventsTool := mcp.NewTool(string(tools.ListEvents),
		mcp.WithDescription("List upcoming calendar events."),
		mcp.WithNumber("days",
			mcp.Description("Number of days to look ahead (default 7)"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of events to return (default 10)"),
		),
	)
	s.AddTool(listEventsTool, gateHandler(g, tools.ListEvents))

	availableSlotsTool := mcp.NewTool(string(tools.GetAvailableSlots),
		mcp.WithDescription("Get available time slots on a specific date during working hours (09:00-18:00)."),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Date to check in YYYY-MM-DD format, e.g. '2026-01-15'"),
		),
		mcp.WithNumber("duration_minutes",
			mcp.Description("Meeting duration in minutes (default 60)"),
		),
		mcp.WithString("attendees",
			mcp.Description("Attendee email address, or an array of addresses, to check availability for"),
		),
	)
	s.AddTool(availableSlotsTool, gateHandler(g, tools.GetAvailableSlots))

	createEventTool := mcp.NewTool(string(tools.CreateCalendarEvent),
		mcp.WithDescription("Create a new calendar event. Invitations are emailed when attendees are given."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Event title"),
		),
		mcp.WithString("start_time",
			mcp.Required(),
			mcp.Description("Start time, e.g. '2026-01-15T14:00:00' or '2026-01-15' (09:00 assumed)"),
		),
		mcp.WithString("end_time",
			mcp.Required(),
			mcp.Description("End time in the same formats as start_time"),
		),
		mcp.WithString("attendees",
			mcp.Description("Attendee email address, or an array of addresses, to invite"),
		),
		mcp.WithString("location",
			mcp.Description("Event location"),
		),
		mcp.WithString("description",
			mcp.Description("Event description"),
		),
	)
	s.AddTool(createEventTool, gateHandler(g, tools.CreateCalendarEvent))

	updateEventTool := mcp.NewTool(string(tools.UpdateCalendarEvent),
		mcp.WithDescription("Update an existing calendar event. Only the fields given are changed."),
		mcp.WithString("event_id",
			mcp.Required(),
			mcp.Description("ID of the event to update"),
		),
		mcp.WithString("title",
			mcp.Description("New event title"),
		),
		mcp.WithString("start_time",
			mcp.Description("New start time"),
		),
		mcp.WithString("end_time",
			mcp.Description("New end time"),
		),
		mcp.WithString("location",
			mcp.Description("New location"),
		),
		mcp.WithString("description",
			mcp.Description("New description"),
		),
	)
	s.AddTool(updateEventTool, gateHandler(g, tools.UpdateCalendarEvent))

	deleteEventTool := mcp.NewTool(string(tools.DeleteCalendarEvent),
		mcp.WithDescription("Delete a calendar event by its ID."),
		mcp.WithString("event_id",
			mcp.Required(),
			mcp.Description("ID of the event to delete"),
		),
	)
	s.AddTool(deleteEventTool, gateHandler(g, tools.DeleteCalendarEvent))
}

func registerEmailTools(s *server.MCPServer, g *review.Gate) {
	searchEmailsTool := mcp.NewTool(string(tools.SearchEmails),
		mcp.WithDescription("Search emails using Gmail search syntax, e.g. 'from:john@example.com', 'subject:meeting', 'is:unread'."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Gmail search query"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of results (default 10)"),
		),
	)
	s.AddTool(searchEmailsTool, gateHandler(g, tools.SearchEmails))

	emailContentTool := mcp.NewTool(string(tools.GetEmailContent),
		mcp.WithDescription("Get the full content of an email by its message ID."),
		mcp.WithString("message_id",
			mcp.Required(),
			mcp.Description("Gmail message ID"),
		),
	)
	s.AddTool(emailContentTool, gateHandler(g, tools.GetEmailContent))

	searchContactsTool := mcp.NewTool(string(tools.SearchContacts),
		mcp.WithDescription("Search contacts by name, email address or phone number."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Name, email or phone fragment to search for"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of contacts to return (default 10)"),
		),
	)
	s.AddTool(searchContactsTool, gateHandler(g, tools.SearchContacts))

	sendEmailTool := mcp.NewTool(string(tools.SendEmail),
		mcp.WithDescription("Send an email from the user's Gmail account."),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Recipient email address, or an array of addresses"),
		),
		mcp.WithString("subject",
			mcp.Required(),
			mcp.Description("Email subject line"),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("Email body content"),
		),
		mcp.WithString("cc",
			mcp.Description("CC recipient address, or an array of addresses"),
		),
		mcp.WithString("bcc",
			mcp.Description("BCC recipient address, or an array of addresses"),
		),
	)
	s.AddTool(sendEmailTool, gateHandler(g, tools.SendEmail))

	draftEmailTool := mcp.NewTool(string(tools.DraftEmail),
		mcp.WithDescription("Create an email draft in Gmail. Set send to true only when the user asked for the draft to go out immediately."),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Recipient email address, or an array of addresses"),
		),
		mcp.WithString("subject",
			mcp.Required(),
			mcp.Description("Email subject line"),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("Email body content"),
		),
		mcp.WithString("cc",
			mcp.Description("CC recipient address, or an array of addresses"),
		),
		mcp.WithBoolean("send",
			mcp.Description("Send the draft right after creating it"),
		),
	)
	s.AddTool(draftEmailTool, gateHandler(g, tools.DraftEmail))
}

// listArguments names the argument keys that carry an address list per
// tool. MCP clients may pass a single string for them; the handler
// lifts it to a one-element array before validation.
var listArguments = map[tools.Name][]string{
	tools.GetAvailableSlots:   {"attendees"},
	tools.CreateCalendarEvent: {"attendees"},
	tools.SendEmail:           {"to", "cc", "bcc"},
	tools.DraftEmail:          {"to", "cc"},
}

// gateHandler adapts one tool to an MCP handler. Bad arguments and
// downstream failures come back as error results; a rejection comes
// back as the notice text the client model is meant to read.
func gateHandler(g *review.Gate, name tools.Name) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		liftListArguments(name, args)

		raw, err := json.Marshal(args)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if err := tools.Validate(name, raw); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		inv := tools.NewInvocation(name, raw)
		decision, err := g.Submit(ctx, inv)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("review failed: %v", err)), nil
		}
		outcome, err := g.Execute(ctx, inv, decision)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if outcome.Rejection != nil {
			return mcp.NewToolResultText(outcome.Rejection.Message()), nil
		}
		if outcome.Result.IsError {
			return mcp.NewToolResultError(outcome.Result.Content), nil
		}
		return mcp.NewToolResultText(outcome.Result.Content), nil
	}
}

// liftListArguments rewrites bare-string values of list-typed keys to
// one-element arrays. An empty string means none were given.
func liftListArguments(name tools.Name, args map[string]any) {
	for _, key := range listArguments[name] {
		s, ok := args[key].(string)
		if !ok {
			continue
		}
		if s == "" {
			delete(args, key)
			continue
		}
		args[key] = []any{s}
	}
}
