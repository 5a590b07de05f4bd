package mcpserver

import (
	"context"
	"log/slog"

	"github.com/donna-ai/donna/internal/logging"
	"github.com/donna-ai/donna/internal/review"
	"github.com/donna-ai/donna/internal/tools"
)

// RejectReason is the rejection text sensitive actions receive while
// the server runs in its default safe mode.
const RejectReason = "sensitive actions are disabled in serve mode; restart the server with --yolo to allow them"

// PolicyReviewer resolves reviews when no human is attached to the
// transport. The default policy rejects every sensitive action and
// points at the --yolo flag; approve mode waves everything through,
// logging a warning per action.
type PolicyReviewer struct {
	approve bool
	logger  *slog.Logger
}

// NewPolicyReviewer builds the serve-mode reviewer. approve selects
// the yolo policy.
func NewPolicyReviewer(approve bool, logger *slog.Logger) *PolicyReviewer {
	if logger == nil {
		logger = slog.Default()
	}
	return &PolicyReviewer{approve: approve, logger: logger}
}

// Review implements review.Reviewer.
func (r *PolicyReviewer) Review(_ context.Context, inv *tools.Invocation) (review.Decision, error) {
	if r.approve {
		r.logger.Warn("approving sensitive action without review",
			logging.Tool(string(inv.Tool)), logging.RequestID(inv.ID))
		return review.Decision{Verdict: review.Approved}, nil
	}
	r.logger.Info("rejecting sensitive action, no reviewer attached",
		logging.Tool(string(inv.Tool)), logging.RequestID(inv.ID))
	return review.Decision{Verdict: review.Rejected, Reason: RejectReason}, nil
}
