package tools

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Invocation is a single tool call as requested by the model. Once
// created it is never modified; a review that edits arguments produces
// a derived copy via WithArguments, leaving the original request intact.
type Invocation struct {
	ID          string
	Tool        Name
	Arguments   json.RawMessage
	RequestedAt time.Time
}

// NewInvocation creates an invocation with a fresh unique ID. The
// argument bytes are copied so later mutation of the caller's buffer
// cannot change the recorded request.
func NewInvocation(tool Name, args json.RawMessage) *Invocation {
	raw := make(json.RawMessage, len(args))
	copy(raw, args)
	return &Invocation{
		ID:          uuid.NewString(),
		Tool:        tool,
		Arguments:   raw,
		RequestedAt: time.Now().UTC(),
	}
}

// WithArguments returns a copy of the invocation carrying replacement
// arguments under the same ID. The receiver is unchanged.
func (inv *Invocation) WithArguments(args json.RawMessage) *Invocation {
	raw := make(json.RawMessage, len(args))
	copy(raw, args)
	return &Invocation{
		ID:          inv.ID,
		Tool:        inv.Tool,
		Arguments:   raw,
		RequestedAt: inv.RequestedAt,
	}
}
