package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/donna-ai/donna/internal/agent"
	"github.com/donna-ai/donna/internal/cli"
	"github.com/donna-ai/donna/internal/config"
	"github.com/donna-ai/donna/internal/google"
	"github.com/donna-ai/donna/internal/review"
	"github.com/donna-ai/donna/internal/tools"
)

const demoHeaderMarkdown = `# Donna Demo

A scripted walk through the assistant's capabilities:

- **Calendar agent**: Google Calendar integration
- **Email agent**: Gmail integration
- **Supervisor**: routes each request to the right specialist

Sensitive actions are auto-approved for the demo; each one is printed
as it passes the review gate.`

const demoSummaryMarkdown = `## Demo complete

This run showed:

1. **Calendar agent** managing Google Calendar events
2. **Email agent** composing and searching Gmail
3. **Supervisor** routing requests to the right specialist

Run ` + "`donna chat`" + ` for an interactive session where you approve,
reject, or edit each sensitive action yourself.`

var demoScript = []struct {
	title   string
	request string
}{
	{"Demo 1: Viewing Calendar", "What's on my calendar for the next 3 days?"},
	{"Demo 2: Checking Availability", "Am I free tomorrow afternoon between 2pm and 5pm?"},
	{"Demo 3: Creating Calendar Event", "Schedule a team sync meeting for tomorrow at 3pm for 30 minutes"},
	{"Demo 4: Searching Emails", "Search for recent emails in my inbox"},
	{"Demo 5: Drafting Email", "Draft an email to demo@example.com about the project status update"},
	{"Demo 6: Multi-Agent Coordination", "Check what meetings I have tomorrow and summarize them for me"},
}

// demoPause spaces the scripted requests out so the output is readable
// as it scrolls.
const demoPause = 2 * time.Second

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted demo of the assistant",
		Long: `Run a fixed sequence of requests against the live assistant. No
interaction is needed: sensitive actions are approved automatically and
printed as they pass the review gate. Note that the demo performs real
calendar and email operations on the authenticated account.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runDemo(context.Background(), cfg)
		},
	}
}

// demoReviewer approves every sensitive action so the scripted run
// needs no operator. Each approval is echoed to the console.
type demoReviewer struct {
	console *cli.Console
}

func (r *demoReviewer) Review(_ context.Context, inv *tools.Invocation) (review.Decision, error) {
	r.console.Warn("Auto-approving for demo:")
	r.console.Println(tools.FormatForReview(inv))
	return review.Decision{Verdict: review.Approved}, nil
}

func runDemo(ctx context.Context, cfg *config.Config) error {
	logger := newLogger(cfg)

	console := cli.NewConsole(os.Stdout)
	console.MarkdownPanel(demoHeaderMarkdown)

	resolved, err := cfg.ResolveProvider()
	if err != nil {
		return err
	}
	llm := buildProvider(resolved)

	oauthConf := google.NewOAuthConfig(cfg.Google.ClientID, cfg.Google.ClientSecret)
	tokens := google.NewFileTokenProvider(oauthConf)
	if !tokens.HasToken() {
		console.Warn("Google OAuth token not found. Calendar and email actions will fail until you run: donna auth")
	}

	runner := tools.NewRunner(
		tools.NewLazyCalendar(ctx, tokens),
		tools.NewLazyMail(ctx, tokens),
		cfg.Location(),
	)
	gate := review.NewGate(&demoReviewer{console: console}, runner,
		review.WithLogger(logger),
	)

	assistant := agent.NewSupervisor(agent.Params{
		Provider:  llm,
		Model:     resolved.Model,
		Gate:      gate,
		UserName:  cfg.User.Name,
		UserEmail: cfg.User.Email,
		Location:  cfg.Location(),
		Logger:    logger,
	})

	console.Info("Starting demo sequence...")
	console.Println()

	for i, step := range demoScript {
		console.TitledPanel(step.title, fmt.Sprintf("%q", step.request))

		reply, err := assistant.HandleRequest(ctx, step.request)
		if err != nil {
			console.Error(err.Error())
		} else {
			console.AssistantReply(reply)
		}

		console.Rule()
		if i < len(demoScript)-1 {
			time.Sleep(demoPause)
		}
	}

	console.MarkdownPanel(demoSummaryMarkdown)
	return nil
}
