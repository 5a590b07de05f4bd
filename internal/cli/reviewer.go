package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/donna-ai/donna/internal/review"
	"github.com/donna-ai/donna/internal/tools"
)

// ConsoleReviewer asks the person at the terminal to approve, reject,
// or edit a pending action. It implements review.Reviewer.
type ConsoleReviewer struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewConsoleReviewer(in io.Reader, out io.Writer) *ConsoleReviewer {
	s := bufio.NewScanner(in)
	s.Buffer(make([]byte, 64*1024), 1024*1024)
	return &ConsoleReviewer{in: s, out: out}
}

// Review blocks until the user answers. The decision is terminal: an
// invalid answer or a bad edit re-prompts rather than deciding.
func (r *ConsoleReviewer) Review(ctx context.Context, inv *tools.Invocation) (review.Decision, error) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, warnStyle.Render("This action requires your approval."))
	fmt.Fprintln(r.out, tools.FormatForReview(inv))

	for {
		if err := ctx.Err(); err != nil {
			return review.Decision{}, err
		}

		answer, err := r.ask("Approve, reject, or edit? [a/r/e]: ")
		if err != nil {
			return review.Decision{}, err
		}
		switch strings.ToLower(answer) {
		case "a", "approve", "y", "yes":
			return review.Decision{Verdict: review.Approved}, nil

		case "r", "reject", "n", "no":
			reason, err := r.ask("Reason (optional): ")
			if err != nil {
				return review.Decision{}, err
			}
			return review.Decision{Verdict: review.Rejected, Reason: reason}, nil

		case "e", "edit":
			edited, err := r.askEdited(inv)
			if err != nil {
				return review.Decision{}, err
			}
			if edited == nil {
				continue
			}
			return review.Decision{Verdict: review.Edited, EditedArguments: edited}, nil

		default:
			fmt.Fprintln(r.out, "Please answer a, r, or e.")
		}
	}
}

func (r *ConsoleReviewer) ask(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	if !r.in.Scan() {
		if err := r.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(r.in.Text()), nil
}

// askEdited reads replacement arguments. A nil result with nil error
// means the edit was unusable and the verdict prompt should repeat.
func (r *ConsoleReviewer) askEdited(inv *tools.Invocation) (json.RawMessage, error) {
	fmt.Fprintf(r.out, "Current arguments: %s\n", string(inv.Arguments))
	line, err := r.ask("Edited arguments (JSON object): ")
	if err != nil {
		return nil, err
	}

	raw := json.RawMessage(line)
	if !json.Valid(raw) {
		fmt.Fprintln(r.out, "That is not valid JSON; the action is still pending.")
		return nil, nil
	}
	if err := tools.Validate(inv.Tool, raw); err != nil {
		fmt.Fprintf(r.out, "Edited arguments not usable: %v\n", err)
		return nil, nil
	}
	return raw, nil
}
