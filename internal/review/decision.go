package review

import (
	"encoding/json"
	"time"

	"github.com/donna-ai/donna/internal/tools"
)

// Verdict is a terminal review decision.
type Verdict string

const (
	Approved Verdict = "approved"
	Rejected Verdict = "rejected"
	Edited   Verdict = "edited"
)

func (v Verdict) String() string { return string(v) }

// Decision is the reviewer's answer for one pending action.
// EditedArguments is set only for Edited, Reason only for Rejected.
type Decision struct {
	Verdict         Verdict
	EditedArguments json.RawMessage
	Reason          string
}

// Outcome records how one invocation went through the gate. Exactly
// one of Result and Rejection is set.
type Outcome struct {
	Request    *tools.Invocation
	Decision   Decision
	FinalArgs  json.RawMessage
	Result     *tools.Result
	Rejection  *RejectionNotice
	ResolvedAt time.Time
}
