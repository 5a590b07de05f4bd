package tools

import (
	"encoding/json"
	"testing"
)

func TestNewInvocation(t *testing.T) {
	args := json.RawMessage(`{"days": 3}`)
	inv := NewInvocation(ListEvents, args)

	if inv.ID == "" {
		t.Error("expected a generated ID")
	}
	if inv.Tool != ListEvents {
		t.Errorf("expected tool %s, got %s", ListEvents, inv.Tool)
	}
	if inv.RequestedAt.IsZero() {
		t.Error("expected RequestedAt to be set")
	}

	// The invocation keeps its own copy of the argument bytes.
	args[2] = 'x'
	if string(inv.Arguments) != `{"days": 3}` {
		t.Errorf("arguments changed after caller mutation: %s", inv.Arguments)
	}

	other := NewInvocation(ListEvents, nil)
	if other.ID == inv.ID {
		t.Error("expected unique IDs across invocations")
	}
}

func TestWithArguments(t *testing.T) {
	inv := NewInvocation(SendEmail, json.RawMessage(`{"subject": "a"}`))
	edited := inv.WithArguments(json.RawMessage(`{"subject": "b"}`))

	if edited.ID != inv.ID {
		t.Error("edited copy must keep the original ID")
	}
	if edited.Tool != inv.Tool {
		t.Error("edited copy must keep the tool")
	}
	if !edited.RequestedAt.Equal(inv.RequestedAt) {
		t.Error("edited copy must keep the request time")
	}
	if string(edited.Arguments) != `{"subject": "b"}` {
		t.Errorf("unexpected edited arguments: %s", edited.Arguments)
	}
	if string(inv.Arguments) != `{"subject": "a"}` {
		t.Errorf("original invocation changed: %s", inv.Arguments)
	}
}
