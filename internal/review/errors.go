package review

import (
	"errors"
	"fmt"
)

// ErrAlreadyResolved is returned by Submit when the invocation ID has
// already received a terminal decision.
var ErrAlreadyResolved = errors.New("review already resolved")

// ConfigurationError reports a defect in the deployment itself, such as
// an unknown tool name or missing credentials. It is fatal for the
// current turn; there is nothing to retry.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// ToolExecutionError reports a downstream API failure during an
// approved invocation. The turn fails but the session continues. The
// cause is reachable through errors.Unwrap.
type ToolExecutionError struct {
	Tool string
	Err  error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("tool %s: %v", e.Tool, e.Err)
}

func (e *ToolExecutionError) Unwrap() error { return e.Err }

// RejectionNotice records that a human rejected a pending action. It is
// a normal terminal outcome, not an error; Message renders the text
// that goes back to the model in place of a tool result.
type RejectionNotice struct {
	RequestID string
	Tool      string
	Reason    string
}

func (n *RejectionNotice) Message() string {
	if n.Reason == "" {
		return fmt.Sprintf("The user rejected the %s action. Do not retry it.", n.Tool)
	}
	return fmt.Sprintf("The user rejected the %s action: %s. Do not retry it.", n.Tool, n.Reason)
}
