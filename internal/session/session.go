// Package session holds the conversation state for one assistant
// thread: its identity, the message history sent to the model, and
// cumulative token usage.
package session

import (
	"time"

	"github.com/donna-ai/donna/internal/provider"
)

// Session is one conversation thread.
type Session struct {
	ID         string
	Messages   []provider.Message
	CreatedAt  time.Time
	UpdatedAt  time.Time
	TokensUsed int
}

// New creates a session with a fresh thread ID.
func New() *Session {
	now := time.Now()
	return &Session{
		ID:        newID(now),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// newID formats thread IDs like session_20260314_153045.
func newID(t time.Time) string {
	return "session_" + t.Format("20060102_150405")
}

// AddMessage appends a message to the history.
func (s *Session) AddMessage(msg provider.Message) {
	s.Messages = append(s.Messages, msg)
	s.UpdatedAt = time.Now()
}

// AddUsage accumulates token usage reported by the provider.
func (s *Session) AddUsage(u provider.Usage) {
	s.TokensUsed += u.InputTokens + u.OutputTokens
	s.UpdatedAt = time.Now()
}

// Clear starts a new conversation thread: the history and usage are
// dropped and a fresh thread ID is minted.
func (s *Session) Clear() {
	now := time.Now()
	s.ID = newID(now)
	s.Messages = nil
	s.TokensUsed = 0
	s.CreatedAt = now
	s.UpdatedAt = now
}

// Len returns the number of messages in the thread.
func (s *Session) Len() int { return len(s.Messages) }
