package review

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/donna-ai/donna/internal/instrumentation"
	"github.com/donna-ai/donna/internal/tools"
)

// Every supported tool must map to a Google service so metrics and
// audit records can name what it touches.
func TestToolTargetsCoverEveryTool(t *testing.T) {
	for _, name := range tools.Names() {
		target, ok := toolTargets[name]
		if !ok {
			t.Errorf("%s has no service mapping", name)
			continue
		}
		if target.service == "" || target.operation == "" {
			t.Errorf("%s maps to incomplete target %+v", name, target)
		}
	}
}

func TestVerdictLabel(t *testing.T) {
	tests := []struct {
		name     string
		tool     tools.Name
		args     string
		decision Decision
		want     string
	}{
		{
			name:     "read tool approved without review",
			tool:     tools.ListEvents,
			args:     `{"days":1}`,
			decision: Decision{Verdict: Approved},
			want:     instrumentation.VerdictAutoApproved,
		},
		{
			name:     "send approved by a human",
			tool:     tools.SendEmail,
			args:     `{"to":["a@example.com"],"subject":"s","body":"b"}`,
			decision: Decision{Verdict: Approved},
			want:     instrumentation.VerdictApproved,
		},
		{
			name:     "send edited",
			tool:     tools.SendEmail,
			args:     `{"to":["a@example.com"],"subject":"s","body":"b"}`,
			decision: Decision{Verdict: Edited},
			want:     instrumentation.VerdictEdited,
		},
		{
			name:     "delete rejected",
			tool:     tools.DeleteCalendarEvent,
			args:     `{"event_id":"evt1"}`,
			decision: Decision{Verdict: Rejected},
			want:     instrumentation.VerdictRejected,
		},
		{
			name:     "draft that sends needs a human",
			tool:     tools.DraftEmail,
			args:     `{"to":["a@example.com"],"subject":"s","body":"b","send":true}`,
			decision: Decision{Verdict: Approved},
			want:     instrumentation.VerdictApproved,
		},
		{
			name:     "draft that saves runs automatically",
			tool:     tools.DraftEmail,
			args:     `{"to":["a@example.com"],"subject":"s","body":"b"}`,
			decision: Decision{Verdict: Approved},
			want:     instrumentation.VerdictAutoApproved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := tools.NewInvocation(tt.tool, json.RawMessage(tt.args))
			if got := verdictLabel(inv, tt.decision); got != tt.want {
				t.Errorf("verdictLabel = %q, want %q", got, tt.want)
			}
		})
	}
}

// newObservedGate builds a gate with live metrics and an audit logger
// writing JSON into the returned buffer.
func newObservedGate(t *testing.T, reviewer Reviewer, invoker Invoker) (*Gate, *bytes.Buffer) {
	t.Helper()

	cfg := instrumentation.Config{
		ServiceName:       "donna-test",
		ServiceVersion:    "test",
		Enabled:           true,
		MetricsExporter:   instrumentation.ExporterPrometheus,
		TracingExporter:   instrumentation.ExporterNone,
		TraceSamplingRate: 0.1,
	}
	provider, err := instrumentation.NewProvider(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewProvider error: %v", err)
	}
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	var buf bytes.Buffer
	audit := instrumentation.NewAuditLogger(slog.New(slog.NewJSONHandler(&buf, nil)))
	gate := NewGate(reviewer, invoker, WithInstrumentation(Instrumentation{
		Metrics:   provider.Metrics(),
		Audit:     audit,
		UserEmail: "jane@example.com",
	}))
	return gate, &buf
}

func TestGateInstrumentedExecution(t *testing.T) {
	invoker := &recordingInvoker{result: tools.NewTextResult("2 events found")}
	gate, buf := newObservedGate(t, &scriptedReviewer{}, invoker)

	inv := tools.NewInvocation(tools.ListEvents, json.RawMessage(`{"days":3}`))
	decision, err := gate.Submit(context.Background(), inv)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if _, err := gate.Execute(context.Background(), inv, decision); err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	logged := buf.String()
	if !strings.Contains(logged, "tool_executed") {
		t.Errorf("audit log missing tool_executed: %s", logged)
	}
	if !strings.Contains(logged, `"tool":"list_events"`) {
		t.Errorf("audit log missing tool name: %s", logged)
	}
	if !strings.Contains(logged, `"verdict":"auto_approved"`) {
		t.Errorf("audit log missing verdict: %s", logged)
	}
	if !strings.Contains(logged, `"user_domain":"example.com"`) {
		t.Errorf("audit log missing user domain: %s", logged)
	}
	if strings.Contains(logged, "jane@example.com") {
		t.Errorf("audit log leaks the full email without PII enabled: %s", logged)
	}
}

func TestGateInstrumentedRejection(t *testing.T) {
	reviewer := &scriptedReviewer{decision: Decision{Verdict: Rejected, Reason: "wrong event"}}
	invoker := &recordingInvoker{result: tools.NewTextResult("unreachable")}
	gate, buf := newObservedGate(t, reviewer, invoker)

	inv := tools.NewInvocation(tools.DeleteCalendarEvent, json.RawMessage(`{"event_id":"evt1"}`))
	decision, err := gate.Submit(context.Background(), inv)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if _, err := gate.Execute(context.Background(), inv, decision); err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if invoker.calls.Load() != 0 {
		t.Error("adapter called for a rejected action")
	}
	logged := buf.String()
	if !strings.Contains(logged, "tool_rejected") {
		t.Errorf("audit log missing tool_rejected: %s", logged)
	}
	if !strings.Contains(logged, `"reason":"wrong event"`) {
		t.Errorf("audit log missing the rejection reason: %s", logged)
	}
	if !strings.Contains(logged, `"status":"rejected"`) {
		t.Errorf("audit log missing rejected status: %s", logged)
	}
	if strings.Contains(logged, "tool_executed") {
		t.Errorf("rejected action logged as executed: %s", logged)
	}
}

func TestGateInstrumentedFailure(t *testing.T) {
	invoker := &recordingInvoker{err: errors.New("googleapi: Error 503: backend unavailable")}
	gate, buf := newObservedGate(t, &scriptedReviewer{}, invoker)

	inv := sendEmailInvocation()
	if _, err := gate.Execute(context.Background(), inv, Decision{Verdict: Approved}); err == nil {
		t.Fatal("expected execution error")
	}

	logged := buf.String()
	if !strings.Contains(logged, "tool_failed") {
		t.Errorf("audit log missing tool_failed: %s", logged)
	}
	if !strings.Contains(logged, "backend unavailable") {
		t.Errorf("audit log missing the failure cause: %s", logged)
	}
}

func TestGateAuditWithoutMetrics(t *testing.T) {
	var buf bytes.Buffer
	audit := instrumentation.NewAuditLogger(slog.New(slog.NewJSONHandler(&buf, nil)))
	invoker := &recordingInvoker{result: tools.NewTextResult("ok")}
	gate := NewGate(&scriptedReviewer{decision: Decision{Verdict: Approved}}, invoker,
		WithInstrumentation(Instrumentation{Audit: audit}))

	inv := sendEmailInvocation()
	decision, err := gate.Submit(context.Background(), inv)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if _, err := gate.Execute(context.Background(), inv, decision); err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	logged := buf.String()
	if !strings.Contains(logged, "tool_executed") {
		t.Errorf("audit log missing tool_executed: %s", logged)
	}
	if !strings.Contains(logged, `"verdict":"approved"`) {
		t.Errorf("audit log missing the human verdict: %s", logged)
	}
}
