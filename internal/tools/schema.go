package tools

import (
	"github.com/donna-ai/donna/internal/provider"
)

func prop(typ, desc string) map[string]any {
	return map[string]any{"type": typ, "description": desc}
}

func stringList(desc string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": desc,
	}
}

// CalendarSchemas returns the tool definitions for the calendar domain.
func CalendarSchemas() []provider.ToolSchema {
	return []provider.ToolSchema{
		{
			Name:        string(ListEvents),
			Description: "List upcoming calendar events.",
			Parameters: map[string]any{
				"days":        prop("integer", "Number of days to look ahead (default 7)"),
				"max_results": prop("integer", "Maximum number of events to return (default 10)"),
			},
		},
		{
			Name:        string(GetAvailableSlots),
			Description: "Get available time slots on a specific date during working hours (09:00-18:00).",
			Parameters: map[string]any{
				"date":             prop("string", "Date to check in YYYY-MM-DD format, e.g. '2026-01-15'"),
				"duration_minutes": prop("integer", "Meeting duration in minutes (default 60)"),
				"attendees":        stringList("Attendee email addresses to check availability for"),
			},
			Required: []string{"date"},
		},
		{
			Name:        string(CreateCalendarEvent),
			Description: "Create a new calendar event. Invitations are emailed when attendees are given.",
			Parameters: map[string]any{
				"title":       prop("string", "Event title"),
				"start_time":  prop("string", "Start time, e.g. '2026-01-15T14:00:00' or '2026-01-15' (09:00 assumed)"),
				"end_time":    prop("string", "End time in the same formats as start_time"),
				"attendees":   stringList("Attendee email addresses to invite"),
				"location":    prop("string", "Event location"),
				"description": prop("string", "Event description"),
			},
			Required: []string{"title", "start_time", "end_time"},
		},
		{
			Name:        string(UpdateCalendarEvent),
			Description: "Update an existing calendar event. Only the fields given are changed.",
			Parameters: map[string]any{
				"event_id":    prop("string", "ID of the event to update"),
				"title":       prop("string", "New event title"),
				"start_time":  prop("string", "New start time"),
				"end_time":    prop("string", "New end time"),
				"location":    prop("string", "New location"),
				"description": prop("string", "New description"),
			},
			Required: []string{"event_id"},
		},
		{
			Name:        string(DeleteCalendarEvent),
			Description: "Delete a calendar event by its ID.",
			Parameters: map[string]any{
				"event_id": prop("string", "ID of the event to delete"),
			},
			Required: []string{"event_id"},
		},
	}
}

// EmailSchemas returns the tool definitions for the email domain.
func EmailSchemas() []provider.ToolSchema {
	return []provider.ToolSchema{
		{
			Name:        string(SearchEmails),
			Description: "Search emails using Gmail search syntax, e.g. 'from:john@example.com', 'subject:meeting', 'is:unread'.",
			Parameters: map[string]any{
				"query":       prop("string", "Gmail search query"),
				"max_results": prop("integer", "Maximum number of results (default 10)"),
			},
			Required: []string{"query"},
		},
		{
			Name:        string(GetEmailContent),
			Description: "Get the full content of an email by its message ID.",
			Parameters: map[string]any{
				"message_id": prop("string", "Gmail message ID"),
			},
			Required: []string{"message_id"},
		},
		{
			Name:        string(SearchContacts),
			Description: "Search contacts by name, email address or phone number.",
			Parameters: map[string]any{
				"query":       prop("string", "Name, email or phone fragment to search for"),
				"max_results": prop("integer", "Maximum number of contacts to return (default 10)"),
			},
			Required: []string{"query"},
		},
		{
			Name:        string(SendEmail),
			Description: "Send an email from the user's Gmail account.",
			Parameters: map[string]any{
				"to":      stringList("Recipient email addresses"),
				"subject": prop("string", "Email subject line"),
				"body":    prop("string", "Email body content"),
				"cc":      stringList("CC recipients"),
				"bcc":     stringList("BCC recipients"),
			},
			Required: []string{"to", "subject", "body"},
		},
		{
			Name:        string(DraftEmail),
			Description: "Create an email draft in Gmail. Set send to true only when the user asked for the draft to go out immediately.",
			Parameters: map[string]any{
				"to":      stringList("Recipient email addresses"),
				"subject": prop("string", "Email subject line"),
				"body":    prop("string", "Email body content"),
				"cc":      stringList("CC recipients"),
				"send":    prop("boolean", "Send the draft right after creating it"),
			},
			Required: []string{"to", "subject", "body"},
		},
	}
}

// Definitions returns every tool definition, calendar first.
func Definitions() []provider.ToolSchema {
	return append(CalendarSchemas(), EmailSchemas()...)
}
