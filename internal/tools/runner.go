package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/donna-ai/donna/internal/calendar"
	"github.com/donna-ai/donna/internal/gmail"
)

// CalendarService is the calendar surface the runner drives.
type CalendarService interface {
	ListEvents(calendarID string, timeMin, timeMax time.Time, maxResults int64) ([]calendar.EventSummary, error)
	CreateEvent(calendarID string, input calendar.EventInput) (*calendar.EventSummary, error)
	UpdateEvent(calendarID, eventID string, input calendar.EventInput) (*calendar.EventSummary, error)
	DeleteEvent(calendarID, eventID string) (*calendar.EventSummary, error)
	AvailableSlots(day time.Time, duration time.Duration, attendees []string) ([]calendar.AvailableSlot, error)
}

// MailService is the Gmail surface the runner drives.
type MailService interface {
	SendEmail(msg *gmail.EmailMessage) (string, error)
	CreateDraft(msg *gmail.EmailMessage) (string, error)
	SendDraft(draftID string) (string, error)
	SearchMessages(query string, maxResults int64) ([]gmail.MessageSummary, error)
	GetMessageContent(messageID string) (*gmail.MessageContent, error)
	SearchContacts(query string, pageSize int) ([]*gmail.Contact, error)
}

const (
	defaultListDays      = 7
	defaultListResults   = 10
	defaultSlotMinutes   = 60
	defaultSearchResults = 10
)

// Runner executes validated tool invocations against the Google
// adapters. All calendar operations target the primary calendar.
type Runner struct {
	calendar CalendarService
	mail     MailService
	loc      *time.Location
}

// NewRunner binds the runner to its services. Naive datetime arguments
// are interpreted in loc; nil means the process local zone.
func NewRunner(cal CalendarService, mail MailService, loc *time.Location) *Runner {
	if loc == nil {
		loc = time.Local
	}
	return &Runner{calendar: cal, mail: mail, loc: loc}
}

// Invoke runs one invocation and renders its outcome for the model.
// Arguments are re-parsed here so edited submissions pass through the
// same checks as original ones.
func (r *Runner) Invoke(ctx context.Context, inv *Invocation) (*Result, error) {
	parsed, err := Parse(inv.Tool, inv.Arguments)
	if err != nil {
		return nil, err
	}

	switch p := parsed.(type) {
	case *ListEventsParams:
		return r.listEvents(p)
	case *GetAvailableSlotsParams:
		return r.availableSlots(p)
	case *CreateCalendarEventParams:
		return r.createEvent(p)
	case *UpdateCalendarEventParams:
		return r.updateEvent(p)
	case *DeleteCalendarEventParams:
		return r.deleteEvent(p)
	case *SearchEmailsParams:
		return r.searchEmails(p)
	case *GetEmailContentParams:
		return r.getEmailContent(p)
	case *SearchContactsParams:
		return r.searchContacts(p)
	case *SendEmailParams:
		return r.sendEmail(p)
	case *DraftEmailParams:
		return r.draftEmail(p)
	}
	return nil, fmt.Errorf("unknown tool %q", inv.Tool)
}

func (r *Runner) listEvents(p *ListEventsParams) (*Result, error) {
	days := p.Days
	if days == 0 {
		days = defaultListDays
	}
	maxResults := p.MaxResults
	if maxResults == 0 {
		maxResults = defaultListResults
	}

	now := time.Now().In(r.loc)
	events, err := r.calendar.ListEvents("primary", now, now.AddDate(0, 0, days), int64(maxResults))
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	if len(events) == 0 {
		return NewTextResult(fmt.Sprintf("No upcoming events in the next %d days.", days)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Upcoming events (next %d days):\n\n", days)
	for _, event := range events {
		summary := event.Summary
		if summary == "" {
			summary = "No title"
		}
		fmt.Fprintf(&b, "• **%s**\n", summary)
		fmt.Fprintf(&b, "  %s\n", event.Start.In(r.loc).Format("Mon, Jan 02 at 03:04 PM"))
		if event.Location != "" {
			fmt.Fprintf(&b, "  Location: %s\n", event.Location)
		}
		fmt.Fprintf(&b, "  ID: %s\n\n", event.ID)
	}
	return NewTextResult(b.String()), nil
}

func (r *Runner) availableSlots(p *GetAvailableSlotsParams) (*Result, error) {
	day, err := time.ParseInLocation(dateLayout, p.Date, r.loc)
	if err != nil {
		return nil, fmt.Errorf("check availability: %w", err)
	}

	minutes := p.DurationMinutes
	if minutes == 0 {
		minutes = defaultSlotMinutes
	}

	slots, err := r.calendar.AvailableSlots(day, time.Duration(minutes)*time.Minute, p.Attendees)
	if err != nil {
		return nil, fmt.Errorf("check availability: %w", err)
	}

	if len(slots) == 0 {
		return NewTextResult(fmt.Sprintf("No available %d-minute slots on %s during working hours.", minutes, p.Date)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Available %d-minute slots on %s:\n", minutes, p.Date)
	for _, slot := range slots {
		fmt.Fprintf(&b, "  • %s\n", slot.Start.Format("15:04"))
	}
	return NewTextResult(b.String()), nil
}

func (r *Runner) createEvent(p *CreateCalendarEventParams) (*Result, error) {
	start, err := ParseDateTime(p.StartTime, r.loc)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	end, err := ParseDateTime(p.EndTime, r.loc)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	event, err := r.calendar.CreateEvent("primary", calendar.EventInput{
		Summary:     p.Title,
		Description: p.Description,
		Location:    p.Location,
		Start:       start,
		End:         end,
		TimeZone:    r.loc.String(),
		Attendees:   p.Attendees,
	})
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	var b strings.Builder
	b.WriteString("Event created successfully!\n")
	fmt.Fprintf(&b, "Title: %s\n", p.Title)
	fmt.Fprintf(&b, "Start: %s\n", p.StartTime)
	fmt.Fprintf(&b, "End: %s\n", p.EndTime)
	if len(p.Attendees) > 0 {
		fmt.Fprintf(&b, "Attendees: %s\n", strings.Join(p.Attendees, ", "))
	}
	if p.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", p.Location)
	}
	if event.HTMLLink != "" {
		fmt.Fprintf(&b, "Link: %s\n", event.HTMLLink)
	}
	return NewTextResult(b.String()), nil
}

func (r *Runner) updateEvent(p *UpdateCalendarEventParams) (*Result, error) {
	input := calendar.EventInput{
		Summary:     p.Title,
		Description: p.Description,
		Location:    p.Location,
		TimeZone:    r.loc.String(),
	}
	if p.StartTime != "" {
		start, err := ParseDateTime(p.StartTime, r.loc)
		if err != nil {
			return nil, fmt.Errorf("update event: %w", err)
		}
		input.Start = start
	}
	if p.EndTime != "" {
		end, err := ParseDateTime(p.EndTime, r.loc)
		if err != nil {
			return nil, fmt.Errorf("update event: %w", err)
		}
		input.End = end
	}

	event, err := r.calendar.UpdateEvent("primary", p.EventID, input)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return NewTextResult(fmt.Sprintf("Event updated successfully!\nTitle: %s", event.Summary)), nil
}

func (r *Runner) deleteEvent(p *DeleteCalendarEventParams) (*Result, error) {
	event, err := r.calendar.DeleteEvent("primary", p.EventID)
	if err != nil {
		return nil, fmt.Errorf("delete event: %w", err)
	}

	title := event.Summary
	if title == "" {
		title = "Untitled Event"
	}
	return NewTextResult(fmt.Sprintf("Event '%s' has been deleted successfully.", title)), nil
}

func (r *Runner) searchEmails(p *SearchEmailsParams) (*Result, error) {
	maxResults := p.MaxResults
	if maxResults == 0 {
		maxResults = defaultSearchResults
	}

	messages, err := r.mail.SearchMessages(p.Query, int64(maxResults))
	if err != nil {
		return nil, fmt.Errorf("search emails: %w", err)
	}

	if len(messages) == 0 {
		return NewTextResult(fmt.Sprintf("No emails found matching: '%s'", p.Query)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d email(s) matching '%s':\n\n", len(messages), p.Query)
	for _, msg := range messages {
		fmt.Fprintf(&b, "• **%s**\n", truncate(orElse(msg.Subject, "No Subject"), 50))
		fmt.Fprintf(&b, "  From: %s\n", orElse(msg.From, "Unknown"))
		fmt.Fprintf(&b, "  Date: %s\n", orElse(msg.Date, "Unknown"))
		fmt.Fprintf(&b, "  ID: %s\n\n", msg.ID)
	}
	return NewTextResult(b.String()), nil
}

func (r *Runner) getEmailContent(p *GetEmailContentParams) (*Result, error) {
	content, err := r.mail.GetMessageContent(p.MessageID)
	if err != nil {
		return nil, fmt.Errorf("get email: %w", err)
	}

	body := []rune(content.Body)
	truncated := len(body) > 1000
	if truncated {
		body = body[:1000]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n\n", orElse(content.Subject, "No Subject"))
	fmt.Fprintf(&b, "From: %s\n", orElse(content.From, "Unknown"))
	fmt.Fprintf(&b, "To: %s\n", orElse(content.To, "Unknown"))
	fmt.Fprintf(&b, "Date: %s\n\n", orElse(content.Date, "Unknown"))
	fmt.Fprintf(&b, "---\n\n%s", string(body))
	if truncated {
		b.WriteString("\n\n... (truncated)")
	}
	return NewTextResult(b.String()), nil
}

func (r *Runner) searchContacts(p *SearchContactsParams) (*Result, error) {
	maxResults := p.MaxResults
	if maxResults == 0 {
		maxResults = defaultSearchResults
	}

	contacts, err := r.mail.SearchContacts(p.Query, maxResults)
	if err != nil {
		return nil, fmt.Errorf("search contacts: %w", err)
	}

	if len(contacts) == 0 {
		return NewTextResult(fmt.Sprintf("No contacts found for query: %s", p.Query)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d contact(s):\n\n", len(contacts))
	for i, contact := range contacts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, contact.DisplayName)
		if contact.EmailAddress != "" {
			fmt.Fprintf(&b, "   Email: %s\n", contact.EmailAddress)
		}
		if contact.PhoneNumber != "" {
			fmt.Fprintf(&b, "   Phone: %s\n", contact.PhoneNumber)
		}
		b.WriteString("\n")
	}
	return NewTextResult(b.String()), nil
}

func (r *Runner) sendEmail(p *SendEmailParams) (*Result, error) {
	id, err := r.mail.SendEmail(&gmail.EmailMessage{
		To:      p.To,
		Cc:      p.Cc,
		Bcc:     p.Bcc,
		Subject: p.Subject,
		Body:    p.Body,
	})
	if err != nil {
		return nil, fmt.Errorf("send email: %w", err)
	}

	var b strings.Builder
	b.WriteString("Email sent successfully!\n")
	fmt.Fprintf(&b, "To: %s\n", strings.Join(p.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\n", p.Subject)
	if len(p.Cc) > 0 {
		fmt.Fprintf(&b, "CC: %s\n", strings.Join(p.Cc, ", "))
	}
	fmt.Fprintf(&b, "Message ID: %s\n", id)
	return NewTextResult(b.String()), nil
}

func (r *Runner) draftEmail(p *DraftEmailParams) (*Result, error) {
	draftID, err := r.mail.CreateDraft(&gmail.EmailMessage{
		To:      p.To,
		Cc:      p.Cc,
		Subject: p.Subject,
		Body:    p.Body,
	})
	if err != nil {
		return nil, fmt.Errorf("create draft: %w", err)
	}

	if p.Send {
		sentID, err := r.mail.SendDraft(draftID)
		if err != nil {
			return nil, fmt.Errorf("send draft: %w", err)
		}
		var b strings.Builder
		b.WriteString("Draft created and sent!\n")
		fmt.Fprintf(&b, "To: %s\n", strings.Join(p.To, ", "))
		fmt.Fprintf(&b, "Subject: %s\n", p.Subject)
		fmt.Fprintf(&b, "Message ID: %s\n", sentID)
		return NewTextResult(b.String()), nil
	}

	var b strings.Builder
	b.WriteString("Draft created successfully!\n")
	fmt.Fprintf(&b, "To: %s\n", strings.Join(p.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\n", p.Subject)
	fmt.Fprintf(&b, "Draft ID: %s\n", draftID)
	b.WriteString("You can edit and send this draft from Gmail.")
	return NewTextResult(b.String()), nil
}

// orElse returns fallback when s is empty.
func orElse(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// truncate shortens s to max characters, marking the cut with an
// ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
