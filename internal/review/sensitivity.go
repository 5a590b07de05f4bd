package review

import (
	"encoding/json"
	"fmt"

	"github.com/donna-ai/donna/internal/tools"
)

// Sensitivity says whether a tool call may run immediately or must
// wait for a human decision.
type Sensitivity int

const (
	AutoApprove Sensitivity = iota
	RequiresReview
)

func (s Sensitivity) String() string {
	if s == RequiresReview {
		return "requires_review"
	}
	return "auto_approve"
}

// Classify maps a tool call to its sensitivity. Reads run without
// review; anything that sends mail or mutates calendar state must be
// approved first. draft_email stays automatic unless the arguments ask
// for the draft to be sent in the same call. An unknown tool is a
// configuration defect, never a silent pass-through.
func Classify(tool tools.Name, args json.RawMessage) (Sensitivity, error) {
	switch tool {
	case tools.ListEvents, tools.GetAvailableSlots,
		tools.SearchEmails, tools.GetEmailContent, tools.SearchContacts:
		return AutoApprove, nil
	case tools.CreateCalendarEvent, tools.UpdateCalendarEvent,
		tools.DeleteCalendarEvent, tools.SendEmail:
		return RequiresReview, nil
	case tools.DraftEmail:
		if wantsSend(args) {
			return RequiresReview, nil
		}
		return AutoApprove, nil
	}
	return 0, &ConfigurationError{Reason: fmt.Sprintf("unknown tool %q", tool)}
}

// wantsSend reports whether draft arguments request immediate sending.
func wantsSend(args json.RawMessage) bool {
	if len(args) == 0 {
		return false
	}
	var probe struct {
		Send bool `json:"send"`
	}
	if err := json.Unmarshal(args, &probe); err != nil {
		return false
	}
	return probe.Send
}
