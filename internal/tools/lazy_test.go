package tools

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/donna-ai/donna/internal/google"
)

// countingTokens fails every TokenSource call until a token is set.
type countingTokens struct {
	calls atomic.Int32
	tok   *oauth2.Token
}

func (c *countingTokens) TokenSource(context.Context) (oauth2.TokenSource, error) {
	c.calls.Add(1)
	if c.tok == nil {
		return nil, &google.AuthenticationError{Reason: "no Google OAuth token found"}
	}
	return oauth2.StaticTokenSource(c.tok), nil
}

func (c *countingTokens) HasToken() bool { return c.tok != nil }

func TestLazyCalendarRetriesFailedConstruction(t *testing.T) {
	tokens := &countingTokens{}
	lc := NewLazyCalendar(context.Background(), tokens)

	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	_, err := lc.ListEvents("primary", day, day.AddDate(0, 0, 7), 10)
	var authErr *google.AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("ListEvents error = %v, want AuthenticationError", err)
	}

	if _, err := lc.AvailableSlots(day, time.Hour, nil); err == nil {
		t.Fatal("AvailableSlots succeeded without a token")
	}

	// A failed construction is retried, not cached.
	if got := tokens.calls.Load(); got != 2 {
		t.Errorf("TokenSource calls = %d, want 2", got)
	}
}

func TestLazyCalendarCachesClient(t *testing.T) {
	tokens := &countingTokens{tok: &oauth2.Token{AccessToken: "test-token"}}
	lc := NewLazyCalendar(context.Background(), tokens)

	first, err := lc.get()
	if err != nil {
		t.Fatalf("get() error = %v", err)
	}
	second, err := lc.get()
	if err != nil {
		t.Fatalf("second get() error = %v", err)
	}

	if first != second {
		t.Error("get() built a new client instead of reusing the cached one")
	}
	if got := tokens.calls.Load(); got != 1 {
		t.Errorf("TokenSource calls = %d, want 1", got)
	}
}

func TestLazyMailRetriesFailedConstruction(t *testing.T) {
	tokens := &countingTokens{}
	lm := NewLazyMail(context.Background(), tokens)

	_, err := lm.SearchMessages("in:inbox", 10)
	var authErr *google.AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("SearchMessages error = %v, want AuthenticationError", err)
	}

	if _, err := lm.SendDraft("draft-1"); err == nil {
		t.Fatal("SendDraft succeeded without a token")
	}

	if got := tokens.calls.Load(); got != 2 {
		t.Errorf("TokenSource calls = %d, want 2", got)
	}
}

func TestLazyMailCachesClient(t *testing.T) {
	tokens := &countingTokens{tok: &oauth2.Token{AccessToken: "test-token"}}
	lm := NewLazyMail(context.Background(), tokens)

	first, err := lm.get()
	if err != nil {
		t.Fatalf("get() error = %v", err)
	}
	second, err := lm.get()
	if err != nil {
		t.Fatalf("second get() error = %v", err)
	}

	if first != second {
		t.Error("get() built a new client instead of reusing the cached one")
	}
	if got := tokens.calls.Load(); got != 1 {
		t.Errorf("TokenSource calls = %d, want 1", got)
	}
}
