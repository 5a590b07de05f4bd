package review

import (
	"context"
	"time"

	"github.com/donna-ai/donna/internal/instrumentation"
	"github.com/donna-ai/donna/internal/tools"
)

// Instrumentation carries the observability sinks for a Gate. The zero
// value disables all of them and the gate behaves identically either
// way. UserEmail labels metrics and audit records with the account the
// gate acts for.
type Instrumentation struct {
	Metrics   *instrumentation.Metrics
	Audit     *instrumentation.AuditLogger
	UserEmail string
}

func (in Instrumentation) active() bool {
	return in.Metrics != nil || in.Audit != nil
}

// WithInstrumentation attaches metrics, audit logging, and tracing to
// the gate. Every tool call passes through the gate regardless of which
// front end issued it, so recording here covers them all.
func WithInstrumentation(in Instrumentation) Option {
	return func(g *Gate) { g.obs = in }
}

// apiTarget names the Google service and operation a tool drives once
// approved.
type apiTarget struct {
	service   string
	operation string
}

var toolTargets = map[tools.Name]apiTarget{
	tools.ListEvents:          {instrumentation.ServiceCalendar, instrumentation.OperationList},
	tools.GetAvailableSlots:   {instrumentation.ServiceCalendar, instrumentation.OperationFreeBusy},
	tools.CreateCalendarEvent: {instrumentation.ServiceCalendar, instrumentation.OperationCreate},
	tools.UpdateCalendarEvent: {instrumentation.ServiceCalendar, instrumentation.OperationUpdate},
	tools.DeleteCalendarEvent: {instrumentation.ServiceCalendar, instrumentation.OperationDelete},
	tools.SearchEmails:        {instrumentation.ServiceGmail, instrumentation.OperationSearch},
	tools.GetEmailContent:     {instrumentation.ServiceGmail, instrumentation.OperationGet},
	tools.SearchContacts:      {instrumentation.ServicePeople, instrumentation.OperationSearch},
	tools.SendEmail:           {instrumentation.ServiceGmail, instrumentation.OperationSend},
	tools.DraftEmail:          {instrumentation.ServiceGmail, instrumentation.OperationDraft},
}

// verdictLabel distinguishes auto-approved calls from ones a human
// approved. The decision alone cannot tell them apart; the original
// arguments can.
func verdictLabel(inv *tools.Invocation, decision Decision) string {
	if decision.Verdict == Approved {
		if sensitivity, err := Classify(inv.Tool, inv.Arguments); err == nil && sensitivity == AutoApprove {
			return instrumentation.VerdictAutoApproved
		}
	}
	return string(decision.Verdict)
}

// observeAutoApproval records the decision for a call that never
// reached the reviewer.
func (g *Gate) observeAutoApproval(ctx context.Context, inv *tools.Invocation) {
	if g.obs.Metrics != nil {
		g.obs.Metrics.RecordReviewDecision(ctx, string(inv.Tool), instrumentation.VerdictAutoApproved)
	}
}

// awaitObserved wraps awaitDecision with the review span, the pending
// gauge, and the decision and wait metrics. Without instrumentation it
// is awaitDecision.
func (g *Gate) awaitObserved(ctx context.Context, inv *tools.Invocation) (Decision, error) {
	if !g.obs.active() {
		return g.awaitDecision(ctx, inv)
	}

	ctx, span := instrumentation.StartReviewSpan(ctx, string(inv.Tool), inv.ID)
	defer span.End()

	if m := g.obs.Metrics; m != nil {
		m.IncrementPendingReviews(ctx)
		defer m.DecrementPendingReviews(ctx)
	}

	start := time.Now()
	decision, err := g.awaitDecision(ctx, inv)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return Decision{}, err
	}

	instrumentation.SetSpanVerdict(span, string(decision.Verdict))
	instrumentation.SetSpanSuccess(span)

	if m := g.obs.Metrics; m != nil {
		m.RecordReviewDecision(ctx, string(inv.Tool), string(decision.Verdict))
		m.RecordReviewWait(ctx, string(inv.Tool), time.Since(start))
	}
	return decision, nil
}

// observeRejection records an invocation the reviewer stopped. The
// adapter is never called, so the counter carries a zero duration and
// the audit record names no service.
func (g *Gate) observeRejection(ctx context.Context, inv *tools.Invocation, reason string) {
	if m := g.obs.Metrics; m != nil {
		m.RecordToolInvocationWithUser(ctx, string(inv.Tool), instrumentation.StatusRejected, g.obs.UserEmail, 0)
	}
	if g.obs.Audit != nil {
		record := instrumentation.NewToolInvocation(string(inv.Tool)).
			WithRequestID(inv.ID).
			WithUser(g.obs.UserEmail).
			WithSpanContext(ctx).
			CompleteRejected(reason)
		g.obs.Audit.LogToolInvocation(record)
	}
}

// invokeObserved wraps the invoker call with the tool span, the tool
// and Google API metrics, and the audit record. run may differ from inv
// when the reviewer edited the arguments; the labels always name the
// original invocation.
func (g *Gate) invokeObserved(ctx context.Context, inv, run *tools.Invocation, decision Decision) (*tools.Result, error) {
	if !g.obs.active() {
		return g.invoker.Invoke(ctx, run)
	}

	verdict := verdictLabel(inv, decision)
	target := toolTargets[inv.Tool]

	ctx, span := instrumentation.StartToolSpan(ctx, string(inv.Tool),
		instrumentation.NewSpanAttributeBuilder().
			WithRequestID(inv.ID).
			WithVerdict(verdict).
			WithService(target.service).
			WithOperation(target.operation).
			Build()...)
	defer span.End()

	record := instrumentation.NewToolInvocation(string(inv.Tool)).
		WithRequestID(inv.ID).
		WithUser(g.obs.UserEmail).
		WithService(target.service, target.operation).
		WithVerdict(verdict).
		WithSpanContext(ctx)

	start := time.Now()
	result, err := g.invoker.Invoke(ctx, run)
	duration := time.Since(start)

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		record.CompleteWithError(err)
		instrumentation.SetSpanError(span, err)
	} else {
		record.CompleteSuccess()
		instrumentation.SetSpanSuccess(span)
	}

	if m := g.obs.Metrics; m != nil {
		m.RecordToolInvocationWithUser(ctx, string(inv.Tool), status, g.obs.UserEmail, duration)
		if target.service != "" {
			m.RecordGoogleAPIOperation(ctx, target.service, target.operation, status, duration)
		}
	}
	if g.obs.Audit != nil {
		g.obs.Audit.LogToolInvocation(record)
	}
	return result, err
}
