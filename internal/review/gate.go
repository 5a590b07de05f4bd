package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/donna-ai/donna/internal/logging"
	"github.com/donna-ai/donna/internal/tools"
)

const timeoutReason = "review timed out"

// Reviewer is the human decision boundary. Review blocks until a
// terminal decision exists for the invocation. Implementations include
// the interactive CLI prompt, the auto-approving demo reviewer, and
// the reject-by-default policy used by serve mode.
type Reviewer interface {
	Review(ctx context.Context, inv *tools.Invocation) (Decision, error)
}

// Invoker executes an approved invocation against the adapters.
// *tools.Runner satisfies it.
type Invoker interface {
	Invoke(ctx context.Context, inv *tools.Invocation) (*tools.Result, error)
}

// Gate sits between the agents and the adapters. AutoApprove calls
// pass straight through; RequiresReview calls suspend until a human
// decides. At most one review is outstanding at a time.
type Gate struct {
	reviewer Reviewer
	invoker  Invoker
	timeout  time.Duration
	logger   *slog.Logger
	obs      Instrumentation

	reviewMu sync.Mutex // held across the reviewer exchange

	mu       sync.Mutex
	resolved map[string]Verdict
	outcomes []*Outcome
}

// Option configures a Gate.
type Option func(*Gate)

// WithReviewTimeout bounds how long Submit waits for a human decision.
// An expired timer resolves the review as rejected. Zero waits
// indefinitely.
func WithReviewTimeout(d time.Duration) Option {
	return func(g *Gate) { g.timeout = d }
}

// WithLogger sets the logger for review activity.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) { g.logger = logger }
}

// NewGate builds a gate that routes decisions through reviewer and
// execution through invoker.
func NewGate(reviewer Reviewer, invoker Invoker, opts ...Option) *Gate {
	g := &Gate{
		reviewer: reviewer,
		invoker:  invoker,
		logger:   slog.Default(),
		resolved: make(map[string]Verdict),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Submit classifies inv and produces a terminal decision for it.
// AutoApprove invocations are approved immediately without consulting
// the reviewer. RequiresReview invocations block until the reviewer
// answers, the configured timeout expires (rejected), or ctx is
// cancelled (an error, not a decision). Submitting an ID that already
// has a decision returns ErrAlreadyResolved.
func (g *Gate) Submit(ctx context.Context, inv *tools.Invocation) (Decision, error) {
	sensitivity, err := Classify(inv.Tool, inv.Arguments)
	if err != nil {
		return Decision{}, err
	}

	if g.isResolved(inv.ID) {
		return Decision{}, ErrAlreadyResolved
	}

	if sensitivity == AutoApprove {
		decision := Decision{Verdict: Approved}
		g.markResolved(inv.ID, decision.Verdict)
		g.observeAutoApproval(ctx, inv)
		return decision, nil
	}

	g.reviewMu.Lock()
	defer g.reviewMu.Unlock()

	// A duplicate may have resolved this ID while we waited for the
	// review slot.
	if g.isResolved(inv.ID) {
		return Decision{}, ErrAlreadyResolved
	}

	g.logger.Info("action pending review",
		logging.Tool(string(inv.Tool)), logging.RequestID(inv.ID))

	decision, err := g.awaitObserved(ctx, inv)
	if err != nil {
		return Decision{}, err
	}
	g.markResolved(inv.ID, decision.Verdict)
	g.logger.Info("review resolved",
		logging.Tool(string(inv.Tool)), logging.RequestID(inv.ID),
		logging.Verdict(decision.Verdict))
	return decision, nil
}

func (g *Gate) awaitDecision(ctx context.Context, inv *tools.Invocation) (Decision, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	type answer struct {
		decision Decision
		err      error
	}
	ch := make(chan answer, 1)
	go func() {
		decision, err := g.reviewer.Review(ctx, inv)
		ch <- answer{decision, err}
	}()

	select {
	case a := <-ch:
		if a.err != nil {
			if g.timeout > 0 && errors.Is(a.err, context.DeadlineExceeded) {
				return Decision{Verdict: Rejected, Reason: timeoutReason}, nil
			}
			return Decision{}, fmt.Errorf("review %s: %w", inv.Tool, a.err)
		}
		switch a.decision.Verdict {
		case Approved, Rejected, Edited:
			return a.decision, nil
		default:
			return Decision{}, fmt.Errorf("reviewer returned unknown verdict %q", a.decision.Verdict)
		}
	case <-ctx.Done():
		if g.timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Decision{Verdict: Rejected, Reason: timeoutReason}, nil
		}
		return Decision{}, ctx.Err()
	}
}

// Execute applies decision to inv. Rejected never reaches the invoker
// and yields an Outcome carrying a RejectionNotice. Edited arguments
// pass the same validation as originals before replacing them. Invoker
// failures come back as *ToolExecutionError wrapping the cause.
func (g *Gate) Execute(ctx context.Context, inv *tools.Invocation, decision Decision) (*Outcome, error) {
	outcome := &Outcome{
		Request:    inv,
		Decision:   decision,
		ResolvedAt: time.Now().UTC(),
	}

	run := inv
	switch decision.Verdict {
	case Rejected:
		outcome.Rejection = &RejectionNotice{
			RequestID: inv.ID,
			Tool:      string(inv.Tool),
			Reason:    decision.Reason,
		}
		g.remember(outcome)
		g.observeRejection(ctx, inv, decision.Reason)
		return outcome, nil

	case Approved:
		outcome.FinalArgs = inv.Arguments

	case Edited:
		if err := tools.Validate(inv.Tool, decision.EditedArguments); err != nil {
			return nil, fmt.Errorf("edited arguments rejected: %w", err)
		}
		run = inv.WithArguments(decision.EditedArguments)
		outcome.FinalArgs = run.Arguments

	default:
		return nil, fmt.Errorf("cannot execute with verdict %q", decision.Verdict)
	}

	result, err := g.invokeObserved(ctx, inv, run, decision)
	if err != nil {
		g.logger.Error("tool execution failed",
			logging.Tool(string(inv.Tool)), logging.RequestID(inv.ID), logging.Err(err))
		return nil, &ToolExecutionError{Tool: string(inv.Tool), Err: err}
	}
	outcome.Result = result
	g.remember(outcome)
	return outcome, nil
}

// History returns the outcomes recorded since the last Reset, oldest
// first.
func (g *Gate) History() []*Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]*Outcome, len(g.outcomes))
	copy(out, g.outcomes)
	return out
}

// Reset forgets resolved IDs and recorded outcomes. Called when the
// conversation is cleared.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resolved = make(map[string]Verdict)
	g.outcomes = nil
}

func (g *Gate) isResolved(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.resolved[id]
	return ok
}

func (g *Gate) markResolved(id string, v Verdict) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resolved[id] = v
}

func (g *Gate) remember(o *Outcome) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.outcomes = append(g.outcomes, o)
}
