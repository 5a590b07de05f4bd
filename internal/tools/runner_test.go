package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/donna-ai/donna/internal/calendar"
	"github.com/donna-ai/donna/internal/gmail"
)

type fakeCalendar struct {
	events      []calendar.EventSummary
	slots       []calendar.AvailableSlot
	deleteTitle string
	err         error

	lastCalendarID string
	lastMaxResults int64
	created        []calendar.EventInput
	updated        map[string]calendar.EventInput
	deletedIDs     []string
	slotsDay       time.Time
	slotsDuration  time.Duration
	slotsAttendees []string
}

func (f *fakeCalendar) ListEvents(calendarID string, timeMin, timeMax time.Time, maxResults int64) ([]calendar.EventSummary, error) {
	f.lastCalendarID = calendarID
	f.lastMaxResults = maxResults
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func (f *fakeCalendar) CreateEvent(calendarID string, input calendar.EventInput) (*calendar.EventSummary, error) {
	f.lastCalendarID = calendarID
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, input)
	return &calendar.EventSummary{ID: "ev1", Summary: input.Summary, HTMLLink: "https://calendar.google.com/event?eid=ev1"}, nil
}

func (f *fakeCalendar) UpdateEvent(calendarID, eventID string, input calendar.EventInput) (*calendar.EventSummary, error) {
	f.lastCalendarID = calendarID
	if f.err != nil {
		return nil, f.err
	}
	if f.updated == nil {
		f.updated = make(map[string]calendar.EventInput)
	}
	f.updated[eventID] = input
	return &calendar.EventSummary{ID: eventID, Summary: orElse(input.Summary, "Existing title")}, nil
}

func (f *fakeCalendar) DeleteEvent(calendarID, eventID string) (*calendar.EventSummary, error) {
	f.lastCalendarID = calendarID
	if f.err != nil {
		return nil, f.err
	}
	f.deletedIDs = append(f.deletedIDs, eventID)
	return &calendar.EventSummary{ID: eventID, Summary: f.deleteTitle}, nil
}

func (f *fakeCalendar) AvailableSlots(day time.Time, duration time.Duration, attendees []string) ([]calendar.AvailableSlot, error) {
	f.slotsDay = day
	f.slotsDuration = duration
	f.slotsAttendees = attendees
	if f.err != nil {
		return nil, f.err
	}
	return f.slots, nil
}

type fakeMail struct {
	messages []gmail.MessageSummary
	content  *gmail.MessageContent
	contacts []*gmail.Contact
	err      error

	sent           []*gmail.EmailMessage
	drafts         []*gmail.EmailMessage
	sentDrafts     []string
	lastQuery      string
	lastMaxResults int64
}

func (f *fakeMail) SendEmail(msg *gmail.EmailMessage) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, msg)
	return "msg123", nil
}

func (f *fakeMail) CreateDraft(msg *gmail.EmailMessage) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.drafts = append(f.drafts, msg)
	return "draft123", nil
}

func (f *fakeMail) SendDraft(draftID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sentDrafts = append(f.sentDrafts, draftID)
	return "sent123", nil
}

func (f *fakeMail) SearchMessages(query string, maxResults int64) ([]gmail.MessageSummary, error) {
	f.lastQuery = query
	f.lastMaxResults = maxResults
	if f.err != nil {
		return nil, f.err
	}
	return f.messages, nil
}

func (f *fakeMail) GetMessageContent(messageID string) (*gmail.MessageContent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.content, nil
}

func (f *fakeMail) SearchContacts(query string, pageSize int) ([]*gmail.Contact, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.contacts, nil
}

func invoke(t *testing.T, r *Runner, tool Name, args string) *Result {
	t.Helper()
	res, err := r.Invoke(context.Background(), NewInvocation(tool, json.RawMessage(args)))
	if err != nil {
		t.Fatalf("Invoke(%s) error: %v", tool, err)
	}
	return res
}

func TestInvokeListEvents(t *testing.T) {
	cal := &fakeCalendar{}
	r := NewRunner(cal, &fakeMail{}, time.UTC)

	res := invoke(t, r, ListEvents, `{}`)
	if res.Content != "No upcoming events in the next 7 days." {
		t.Errorf("unexpected content: %q", res.Content)
	}
	if cal.lastCalendarID != "primary" {
		t.Errorf("expected primary calendar, got %q", cal.lastCalendarID)
	}
	if cal.lastMaxResults != 10 {
		t.Errorf("expected default max results 10, got %d", cal.lastMaxResults)
	}

	cal.events = []calendar.EventSummary{
		{
			ID:       "ev1",
			Summary:  "Standup",
			Start:    time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
			Location: "Room 1",
		},
		{
			ID:    "ev2",
			Start: time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC),
		},
	}
	res = invoke(t, r, ListEvents, `{"days": 3, "max_results": 5}`)
	if !strings.Contains(res.Content, "Upcoming events (next 3 days):") {
		t.Errorf("missing header: %q", res.Content)
	}
	if !strings.Contains(res.Content, "• **Standup**") {
		t.Errorf("missing event title: %q", res.Content)
	}
	if !strings.Contains(res.Content, "Tue, Mar 10 at 09:00 AM") {
		t.Errorf("missing formatted start: %q", res.Content)
	}
	if !strings.Contains(res.Content, "Location: Room 1") {
		t.Errorf("missing location: %q", res.Content)
	}
	if !strings.Contains(res.Content, "ID: ev1") {
		t.Errorf("missing event ID: %q", res.Content)
	}
	if !strings.Contains(res.Content, "• **No title**") {
		t.Errorf("missing fallback title: %q", res.Content)
	}
	if cal.lastMaxResults != 5 {
		t.Errorf("expected max results 5, got %d", cal.lastMaxResults)
	}
}

func TestInvokeAvailableSlots(t *testing.T) {
	cal := &fakeCalendar{
		slots: []calendar.AvailableSlot{
			{Start: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)},
			{Start: time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)},
		},
	}
	r := NewRunner(cal, &fakeMail{}, time.UTC)

	res := invoke(t, r, GetAvailableSlots, `{"date": "2026-03-10", "attendees": ["bob@example.com"]}`)
	if !strings.Contains(res.Content, "Available 60-minute slots on 2026-03-10:") {
		t.Errorf("missing header: %q", res.Content)
	}
	if !strings.Contains(res.Content, "• 09:00") || !strings.Contains(res.Content, "• 14:30") {
		t.Errorf("missing slots: %q", res.Content)
	}
	if !cal.slotsDay.Equal(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected day: %v", cal.slotsDay)
	}
	if cal.slotsDuration != time.Hour {
		t.Errorf("expected default 60-minute duration, got %v", cal.slotsDuration)
	}
	if len(cal.slotsAttendees) != 1 || cal.slotsAttendees[0] != "bob@example.com" {
		t.Errorf("attendees not forwarded: %v", cal.slotsAttendees)
	}

	cal.slots = nil
	res = invoke(t, r, GetAvailableSlots, `{"date": "2026-03-10", "duration_minutes": 30}`)
	if res.Content != "No available 30-minute slots on 2026-03-10 during working hours." {
		t.Errorf("unexpected content: %q", res.Content)
	}
	if cal.slotsDuration != 30*time.Minute {
		t.Errorf("expected 30-minute duration, got %v", cal.slotsDuration)
	}
}

func TestInvokeCreateEvent(t *testing.T) {
	cal := &fakeCalendar{}
	r := NewRunner(cal, &fakeMail{}, time.UTC)

	res := invoke(t, r, CreateCalendarEvent, `{
		"title": "Planning",
		"start_time": "2026-03-10T14:00:00",
		"end_time": "2026-03-10T15:00:00",
		"attendees": ["a@example.com", "b@example.com"],
		"location": "Room 2"
	}`)

	if len(cal.created) != 1 {
		t.Fatalf("expected one created event, got %d", len(cal.created))
	}
	input := cal.created[0]
	if input.Summary != "Planning" {
		t.Errorf("unexpected summary: %q", input.Summary)
	}
	if !input.Start.Equal(time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected start: %v", input.Start)
	}
	if input.TimeZone != "UTC" {
		t.Errorf("unexpected timezone: %q", input.TimeZone)
	}
	if len(input.Attendees) != 2 {
		t.Errorf("attendees not forwarded: %v", input.Attendees)
	}

	if !strings.Contains(res.Content, "Event created successfully!") {
		t.Errorf("missing confirmation: %q", res.Content)
	}
	if !strings.Contains(res.Content, "Title: Planning") {
		t.Errorf("missing title line: %q", res.Content)
	}
	if !strings.Contains(res.Content, "Attendees: a@example.com, b@example.com") {
		t.Errorf("missing attendees line: %q", res.Content)
	}
	if !strings.Contains(res.Content, "Location: Room 2") {
		t.Errorf("missing location line: %q", res.Content)
	}
	if !strings.Contains(res.Content, "Link: https://calendar.google.com/event?eid=ev1") {
		t.Errorf("missing link line: %q", res.Content)
	}
}

func TestInvokeCreateEventDateOnly(t *testing.T) {
	cal := &fakeCalendar{}
	r := NewRunner(cal, &fakeMail{}, time.UTC)

	invoke(t, r, CreateCalendarEvent, `{"title": "Offsite", "start_time": "2026-03-10", "end_time": "2026-03-10"}`)

	if len(cal.created) != 1 {
		t.Fatalf("expected one created event, got %d", len(cal.created))
	}
	if got := cal.created[0].Start.Hour(); got != 9 {
		t.Errorf("expected 09:00 default for bare date, got hour %d", got)
	}
}

func TestInvokeUpdateEvent(t *testing.T) {
	cal := &fakeCalendar{}
	r := NewRunner(cal, &fakeMail{}, time.UTC)

	res := invoke(t, r, UpdateCalendarEvent, `{"event_id": "ev9", "title": "Moved", "start_time": "2026-03-11 10:00"}`)

	input, ok := cal.updated["ev9"]
	if !ok {
		t.Fatal("update not forwarded to the calendar service")
	}
	if input.Summary != "Moved" {
		t.Errorf("unexpected summary: %q", input.Summary)
	}
	if !input.Start.Equal(time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected start: %v", input.Start)
	}
	if !input.End.IsZero() {
		t.Errorf("end should stay unset, got %v", input.End)
	}
	if !strings.Contains(res.Content, "Event updated successfully!") {
		t.Errorf("missing confirmation: %q", res.Content)
	}
	if !strings.Contains(res.Content, "Title: Moved") {
		t.Errorf("missing title line: %q", res.Content)
	}
}

func TestInvokeDeleteEvent(t *testing.T) {
	cal := &fakeCalendar{deleteTitle: "Standup"}
	r := NewRunner(cal, &fakeMail{}, time.UTC)

	res := invoke(t, r, DeleteCalendarEvent, `{"event_id": "ev9"}`)
	if res.Content != "Event 'Standup' has been deleted successfully." {
		t.Errorf("unexpected content: %q", res.Content)
	}
	if len(cal.deletedIDs) != 1 || cal.deletedIDs[0] != "ev9" {
		t.Errorf("delete not forwarded: %v", cal.deletedIDs)
	}

	cal.deleteTitle = ""
	res = invoke(t, r, DeleteCalendarEvent, `{"event_id": "ev10"}`)
	if res.Content != "Event 'Untitled Event' has been deleted successfully." {
		t.Errorf("unexpected content: %q", res.Content)
	}
}

func TestInvokeSearchEmails(t *testing.T) {
	mail := &fakeMail{}
	r := NewRunner(&fakeCalendar{}, mail, time.UTC)

	res := invoke(t, r, SearchEmails, `{"query": "is:unread"}`)
	if res.Content != "No emails found matching: 'is:unread'" {
		t.Errorf("unexpected content: %q", res.Content)
	}
	if mail.lastQuery != "is:unread" {
		t.Errorf("query not forwarded: %q", mail.lastQuery)
	}
	if mail.lastMaxResults != 10 {
		t.Errorf("expected default max results 10, got %d", mail.lastMaxResults)
	}

	longSubject := strings.Repeat("Quarterly report preparation notes ", 3)
	mail.messages = []gmail.MessageSummary{
		{ID: "m1", From: "alice@example.com", Subject: "Lunch?", Date: "Tue, 10 Mar 2026 11:00:00 +0000"},
		{ID: "m2", Subject: longSubject},
	}
	res = invoke(t, r, SearchEmails, `{"query": "is:unread", "max_results": 5}`)
	if !strings.Contains(res.Content, "Found 2 email(s) matching 'is:unread':") {
		t.Errorf("missing header: %q", res.Content)
	}
	if !strings.Contains(res.Content, "• **Lunch?**") {
		t.Errorf("missing subject: %q", res.Content)
	}
	if !strings.Contains(res.Content, "From: alice@example.com") {
		t.Errorf("missing from line: %q", res.Content)
	}
	if !strings.Contains(res.Content, "ID: m1") {
		t.Errorf("missing message ID: %q", res.Content)
	}
	want := string([]rune(longSubject)[:47]) + "..."
	if !strings.Contains(res.Content, want) {
		t.Errorf("long subject not truncated to %q: %q", want, res.Content)
	}
	if strings.Contains(res.Content, longSubject) {
		t.Errorf("long subject appears untruncated: %q", res.Content)
	}
	if !strings.Contains(res.Content, "From: Unknown") {
		t.Errorf("missing from fallback: %q", res.Content)
	}
	if mail.lastMaxResults != 5 {
		t.Errorf("expected max results 5, got %d", mail.lastMaxResults)
	}
}

func TestInvokeGetEmailContent(t *testing.T) {
	mail := &fakeMail{
		content: &gmail.MessageContent{
			ID:      "m1",
			From:    "alice@example.com",
			To:      "me@example.com",
			Subject: "Numbers",
			Date:    "Tue, 10 Mar 2026 11:00:00 +0000",
			Body:    "Short body.",
		},
	}
	r := NewRunner(&fakeCalendar{}, mail, time.UTC)

	res := invoke(t, r, GetEmailContent, `{"message_id": "m1"}`)
	if !strings.Contains(res.Content, "**Numbers**") {
		t.Errorf("missing subject: %q", res.Content)
	}
	if !strings.Contains(res.Content, "From: alice@example.com") {
		t.Errorf("missing from: %q", res.Content)
	}
	if !strings.Contains(res.Content, "To: me@example.com") {
		t.Errorf("missing to: %q", res.Content)
	}
	if !strings.Contains(res.Content, "---\n\nShort body.") {
		t.Errorf("missing body: %q", res.Content)
	}
	if strings.Contains(res.Content, "(truncated)") {
		t.Errorf("short body should not be truncated: %q", res.Content)
	}
}

func TestInvokeGetEmailContentTruncatesBody(t *testing.T) {
	mail := &fakeMail{
		content: &gmail.MessageContent{Subject: "Big", Body: strings.Repeat("x", 1500)},
	}
	r := NewRunner(&fakeCalendar{}, mail, time.UTC)

	res := invoke(t, r, GetEmailContent, `{"message_id": "m1"}`)
	if !strings.HasSuffix(res.Content, "... (truncated)") {
		t.Errorf("missing truncation marker: %q", res.Content[len(res.Content)-40:])
	}
	if !strings.Contains(res.Content, strings.Repeat("x", 1000)) {
		t.Error("expected first 1000 characters of the body")
	}
	if strings.Contains(res.Content, strings.Repeat("x", 1001)) {
		t.Error("body not cut at 1000 characters")
	}
}

func TestInvokeSearchContacts(t *testing.T) {
	mail := &fakeMail{}
	r := NewRunner(&fakeCalendar{}, mail, time.UTC)

	res := invoke(t, r, SearchContacts, `{"query": "alice"}`)
	if res.Content != "No contacts found for query: alice" {
		t.Errorf("unexpected content: %q", res.Content)
	}

	mail.contacts = []*gmail.Contact{
		{DisplayName: "Alice Johnson", EmailAddress: "alice@example.com", PhoneNumber: "+1-555-0151"},
		{DisplayName: "Alice Smith", EmailAddress: "asmith@example.com"},
	}
	res = invoke(t, r, SearchContacts, `{"query": "alice"}`)
	if !strings.Contains(res.Content, "Found 2 contact(s):") {
		t.Errorf("missing header: %q", res.Content)
	}
	if !strings.Contains(res.Content, "1. Alice Johnson") {
		t.Errorf("missing first contact: %q", res.Content)
	}
	if !strings.Contains(res.Content, "   Email: alice@example.com") {
		t.Errorf("missing email line: %q", res.Content)
	}
	if !strings.Contains(res.Content, "   Phone: +1-555-0151") {
		t.Errorf("missing phone line: %q", res.Content)
	}
	if !strings.Contains(res.Content, "2. Alice Smith") {
		t.Errorf("missing second contact: %q", res.Content)
	}
}

func TestInvokeSendEmail(t *testing.T) {
	mail := &fakeMail{}
	r := NewRunner(&fakeCalendar{}, mail, time.UTC)

	res := invoke(t, r, SendEmail, `{
		"to": ["a@example.com"],
		"subject": "Hi",
		"body": "Hello there",
		"cc": ["c@example.com"]
	}`)

	if len(mail.sent) != 1 {
		t.Fatalf("expected one sent message, got %d", len(mail.sent))
	}
	msg := mail.sent[0]
	if msg.Subject != "Hi" || msg.Body != "Hello there" {
		t.Errorf("message not forwarded: %+v", msg)
	}
	if len(msg.Cc) != 1 || msg.Cc[0] != "c@example.com" {
		t.Errorf("cc not forwarded: %v", msg.Cc)
	}

	if !strings.Contains(res.Content, "Email sent successfully!") {
		t.Errorf("missing confirmation: %q", res.Content)
	}
	if !strings.Contains(res.Content, "To: a@example.com") {
		t.Errorf("missing to line: %q", res.Content)
	}
	if !strings.Contains(res.Content, "CC: c@example.com") {
		t.Errorf("missing cc line: %q", res.Content)
	}
	if !strings.Contains(res.Content, "Message ID: msg123") {
		t.Errorf("missing message ID: %q", res.Content)
	}

	res = invoke(t, r, SendEmail, `{"to": ["a@example.com"], "subject": "Hi", "body": "Hello"}`)
	if strings.Contains(res.Content, "CC:") {
		t.Errorf("unexpected cc line: %q", res.Content)
	}
}

func TestInvokeDraftEmail(t *testing.T) {
	mail := &fakeMail{}
	r := NewRunner(&fakeCalendar{}, mail, time.UTC)

	res := invoke(t, r, DraftEmail, `{"to": ["a@example.com"], "subject": "Hi", "body": "Hello"}`)
	if len(mail.drafts) != 1 {
		t.Fatalf("expected one draft, got %d", len(mail.drafts))
	}
	if len(mail.sentDrafts) != 0 {
		t.Errorf("draft sent without send intent: %v", mail.sentDrafts)
	}
	if !strings.Contains(res.Content, "Draft created successfully!") {
		t.Errorf("missing confirmation: %q", res.Content)
	}
	if !strings.Contains(res.Content, "Draft ID: draft123") {
		t.Errorf("missing draft ID: %q", res.Content)
	}
	if !strings.Contains(res.Content, "You can edit and send this draft from Gmail.") {
		t.Errorf("missing hint: %q", res.Content)
	}
}

func TestInvokeDraftEmailWithSend(t *testing.T) {
	mail := &fakeMail{}
	r := NewRunner(&fakeCalendar{}, mail, time.UTC)

	res := invoke(t, r, DraftEmail, `{"to": ["a@example.com"], "subject": "Hi", "body": "Hello", "send": true}`)
	if len(mail.drafts) != 1 {
		t.Fatalf("expected one draft, got %d", len(mail.drafts))
	}
	if len(mail.sentDrafts) != 1 || mail.sentDrafts[0] != "draft123" {
		t.Fatalf("expected the draft to be sent: %v", mail.sentDrafts)
	}
	if !strings.Contains(res.Content, "Draft created and sent!") {
		t.Errorf("missing confirmation: %q", res.Content)
	}
	if !strings.Contains(res.Content, "Message ID: sent123") {
		t.Errorf("missing sent message ID: %q", res.Content)
	}
}

func TestInvokeValidationFailure(t *testing.T) {
	mail := &fakeMail{}
	r := NewRunner(&fakeCalendar{}, mail, time.UTC)

	_, err := r.Invoke(context.Background(), NewInvocation(SendEmail, json.RawMessage(`{}`)))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "invalid arguments") {
		t.Errorf("unexpected error: %v", err)
	}
	if len(mail.sent) != 0 {
		t.Error("service must not be called for invalid arguments")
	}
}

func TestInvokeAdapterFailure(t *testing.T) {
	apiErr := errors.New("googleapi: 500")
	cal := &fakeCalendar{err: apiErr}
	r := NewRunner(cal, &fakeMail{}, time.UTC)

	_, err := r.Invoke(context.Background(), NewInvocation(ListEvents, json.RawMessage(`{}`)))
	if err == nil {
		t.Fatal("expected adapter error")
	}
	if !errors.Is(err, apiErr) {
		t.Errorf("cause not wrapped: %v", err)
	}
	if !strings.Contains(err.Error(), "list events") {
		t.Errorf("unexpected error text: %v", err)
	}
}
