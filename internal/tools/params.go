package tools

import (
	"encoding/json"
	"fmt"
	"time"
)

// datetimeLayouts are the naive layouts accepted from the model, tried
// in order after RFC3339. Naive values are interpreted in the runner's
// configured timezone.
var datetimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

const dateLayout = "2006-01-02"

// ParseDateTime parses the datetime strings models produce. Zoned
// RFC3339 values are taken as-is. A bare date gets 09:00 as the time of
// day.
func ParseDateTime(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range datetimeLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err != nil {
			continue
		}
		if layout == dateLayout {
			t = time.Date(t.Year(), t.Month(), t.Day(), 9, 0, 0, 0, loc)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized datetime %q", s)
}

func parseableDateTime(s string) bool {
	_, err := ParseDateTime(s, time.UTC)
	return err == nil
}

// Params is implemented by every tool's argument struct.
type Params interface {
	Validate() error
}

// ListEventsParams control the upcoming-events listing. Zero values
// fall back to 7 days and 10 results.
type ListEventsParams struct {
	Days       int `json:"days,omitempty"`
	MaxResults int `json:"max_results,omitempty"`
}

func (p *ListEventsParams) Validate() error {
	if p.Days < 0 {
		return fmt.Errorf("days must not be negative")
	}
	if p.MaxResults < 0 {
		return fmt.Errorf("max_results must not be negative")
	}
	return nil
}

// GetAvailableSlotsParams ask for open meeting slots on one day.
type GetAvailableSlotsParams struct {
	Date            string   `json:"date"`
	DurationMinutes int      `json:"duration_minutes,omitempty"`
	Attendees       []string `json:"attendees,omitempty"`
}

func (p *GetAvailableSlotsParams) Validate() error {
	if p.Date == "" {
		return fmt.Errorf("date is required")
	}
	if _, err := time.Parse(dateLayout, p.Date); err != nil {
		return fmt.Errorf("date must use YYYY-MM-DD format")
	}
	if p.DurationMinutes < 0 {
		return fmt.Errorf("duration_minutes must not be negative")
	}
	return nil
}

type CreateCalendarEventParams struct {
	Title       string   `json:"title"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	Attendees   []string `json:"attendees,omitempty"`
	Location    string   `json:"location,omitempty"`
	Description string   `json:"description,omitempty"`
}

func (p *CreateCalendarEventParams) Validate() error {
	if p.Title == "" {
		return fmt.Errorf("title is required")
	}
	if p.StartTime == "" {
		return fmt.Errorf("start_time is required")
	}
	if !parseableDateTime(p.StartTime) {
		return fmt.Errorf("invalid start_time %q", p.StartTime)
	}
	if p.EndTime == "" {
		return fmt.Errorf("end_time is required")
	}
	if !parseableDateTime(p.EndTime) {
		return fmt.Errorf("invalid end_time %q", p.EndTime)
	}
	return nil
}

// UpdateCalendarEventParams patch an existing event. Empty fields are
// left unchanged.
type UpdateCalendarEventParams struct {
	EventID     string `json:"event_id"`
	Title       string `json:"title,omitempty"`
	StartTime   string `json:"start_time,omitempty"`
	EndTime     string `json:"end_time,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
}

func (p *UpdateCalendarEventParams) Validate() error {
	if p.EventID == "" {
		return fmt.Errorf("event_id is required")
	}
	if p.StartTime != "" && !parseableDateTime(p.StartTime) {
		return fmt.Errorf("invalid start_time %q", p.StartTime)
	}
	if p.EndTime != "" && !parseableDateTime(p.EndTime) {
		return fmt.Errorf("invalid end_time %q", p.EndTime)
	}
	return nil
}

type DeleteCalendarEventParams struct {
	EventID string `json:"event_id"`
}

func (p *DeleteCalendarEventParams) Validate() error {
	if p.EventID == "" {
		return fmt.Errorf("event_id is required")
	}
	return nil
}

type SearchEmailsParams struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
}

func (p *SearchEmailsParams) Validate() error {
	if p.Query == "" {
		return fmt.Errorf("query is required")
	}
	if p.MaxResults < 0 {
		return fmt.Errorf("max_results must not be negative")
	}
	return nil
}

type GetEmailContentParams struct {
	MessageID string `json:"message_id"`
}

func (p *GetEmailContentParams) Validate() error {
	if p.MessageID == "" {
		return fmt.Errorf("message_id is required")
	}
	return nil
}

type SearchContactsParams struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
}

func (p *SearchContactsParams) Validate() error {
	if p.Query == "" {
		return fmt.Errorf("query is required")
	}
	if p.MaxResults < 0 {
		return fmt.Errorf("max_results must not be negative")
	}
	return nil
}

type SendEmailParams struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
	Cc      []string `json:"cc,omitempty"`
	Bcc     []string `json:"bcc,omitempty"`
}

func (p *SendEmailParams) Validate() error {
	if len(p.To) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}
	if p.Subject == "" {
		return fmt.Errorf("subject is required")
	}
	if p.Body == "" {
		return fmt.Errorf("body is required")
	}
	return nil
}

// DraftEmailParams create a Gmail draft. Send set to true asks for the
// draft to be sent right after it is created, which upgrades the call
// to a reviewed action.
type DraftEmailParams struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
	Cc      []string `json:"cc,omitempty"`
	Send    bool     `json:"send,omitempty"`
}

func (p *DraftEmailParams) Validate() error {
	if len(p.To) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}
	if p.Subject == "" {
		return fmt.Errorf("subject is required")
	}
	if p.Body == "" {
		return fmt.Errorf("body is required")
	}
	return nil
}

// Parse decodes and validates arguments for the named tool. Every
// execution path goes through it: the initial submission and any
// reviewer-edited replacement are checked by the same rules.
func Parse(tool Name, args json.RawMessage) (Params, error) {
	var p Params
	switch tool {
	case ListEvents:
		p = &ListEventsParams{}
	case GetAvailableSlots:
		p = &GetAvailableSlotsParams{}
	case CreateCalendarEvent:
		p = &CreateCalendarEventParams{}
	case UpdateCalendarEvent:
		p = &UpdateCalendarEventParams{}
	case DeleteCalendarEvent:
		p = &DeleteCalendarEventParams{}
	case SearchEmails:
		p = &SearchEmailsParams{}
	case GetEmailContent:
		p = &GetEmailContentParams{}
	case SearchContacts:
		p = &SearchContactsParams{}
	case SendEmail:
		p = &SendEmailParams{}
	case DraftEmail:
		p = &DraftEmailParams{}
	default:
		return nil, fmt.Errorf("unknown tool %q", tool)
	}

	if len(args) > 0 {
		if err := json.Unmarshal(args, p); err != nil {
			return nil, fmt.Errorf("invalid arguments for %s: %w", tool, err)
		}
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid arguments for %s: %w", tool, err)
	}
	return p, nil
}

// Validate checks arguments without keeping the decoded form.
func Validate(tool Name, args json.RawMessage) error {
	_, err := Parse(tool, args)
	return err
}
