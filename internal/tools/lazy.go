package tools

import (
	"context"
	"sync"
	"time"

	"github.com/donna-ai/donna/internal/calendar"
	"github.com/donna-ai/donna/internal/gmail"
	"github.com/donna-ai/donna/internal/google"
)

// LazyCalendar defers Calendar client construction to the first call so
// the process can start before the user has authenticated. A failed
// construction is not cached; the next call retries, which lets a run
// recover after donna auth completes. Implements CalendarService.
type LazyCalendar struct {
	ctx    context.Context
	tokens google.TokenProvider

	mu     sync.Mutex
	client *calendar.Client
}

// NewLazyCalendar binds the deferred client to the process context used
// for construction and to the credential source.
func NewLazyCalendar(ctx context.Context, tokens google.TokenProvider) *LazyCalendar {
	return &LazyCalendar{ctx: ctx, tokens: tokens}
}

func (l *LazyCalendar) get() (*calendar.Client, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.client != nil {
		return l.client, nil
	}
	c, err := calendar.NewClient(l.ctx, l.tokens)
	if err != nil {
		return nil, err
	}
	l.client = c
	return c, nil
}

func (l *LazyCalendar) ListEvents(calendarID string, timeMin, timeMax time.Time, maxResults int64) ([]calendar.EventSummary, error) {
	c, err := l.get()
	if err != nil {
		return nil, err
	}
	return c.ListEvents(calendarID, timeMin, timeMax, maxResults)
}

func (l *LazyCalendar) CreateEvent(calendarID string, input calendar.EventInput) (*calendar.EventSummary, error) {
	c, err := l.get()
	if err != nil {
		return nil, err
	}
	return c.CreateEvent(calendarID, input)
}

func (l *LazyCalendar) UpdateEvent(calendarID, eventID string, input calendar.EventInput) (*calendar.EventSummary, error) {
	c, err := l.get()
	if err != nil {
		return nil, err
	}
	return c.UpdateEvent(calendarID, eventID, input)
}

func (l *LazyCalendar) DeleteEvent(calendarID, eventID string) (*calendar.EventSummary, error) {
	c, err := l.get()
	if err != nil {
		return nil, err
	}
	return c.DeleteEvent(calendarID, eventID)
}

func (l *LazyCalendar) AvailableSlots(day time.Time, duration time.Duration, attendees []string) ([]calendar.AvailableSlot, error) {
	c, err := l.get()
	if err != nil {
		return nil, err
	}
	return c.AvailableSlots(day, duration, attendees)
}

// LazyMail is the Gmail counterpart of LazyCalendar. Implements
// MailService.
type LazyMail struct {
	ctx    context.Context
	tokens google.TokenProvider

	mu     sync.Mutex
	client *gmail.Client
}

func NewLazyMail(ctx context.Context, tokens google.TokenProvider) *LazyMail {
	return &LazyMail{ctx: ctx, tokens: tokens}
}

func (l *LazyMail) get() (*gmail.Client, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.client != nil {
		return l.client, nil
	}
	c, err := gmail.NewClient(l.ctx, l.tokens)
	if err != nil {
		return nil, err
	}
	l.client = c
	return c, nil
}

func (l *LazyMail) SendEmail(msg *gmail.EmailMessage) (string, error) {
	c, err := l.get()
	if err != nil {
		return "", err
	}
	return c.SendEmail(msg)
}

func (l *LazyMail) CreateDraft(msg *gmail.EmailMessage) (string, error) {
	c, err := l.get()
	if err != nil {
		return "", err
	}
	return c.CreateDraft(msg)
}

func (l *LazyMail) SendDraft(draftID string) (string, error) {
	c, err := l.get()
	if err != nil {
		return "", err
	}
	return c.SendDraft(draftID)
}

func (l *LazyMail) SearchMessages(query string, maxResults int64) ([]gmail.MessageSummary, error) {
	c, err := l.get()
	if err != nil {
		return nil, err
	}
	return c.SearchMessages(query, maxResults)
}

func (l *LazyMail) GetMessageContent(messageID string) (*gmail.MessageContent, error) {
	c, err := l.get()
	if err != nil {
		return nil, err
	}
	return c.GetMessageContent(messageID)
}

func (l *LazyMail) SearchContacts(query string, pageSize int) ([]*gmail.Contact, error) {
	c, err := l.get()
	if err != nil {
		return nil, err
	}
	return c.SearchContacts(query, pageSize)
}
