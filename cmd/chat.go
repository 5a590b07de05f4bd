package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/donna-ai/donna/internal/agent"
	"github.com/donna-ai/donna/internal/cli"
	"github.com/donna-ai/donna/internal/config"
	"github.com/donna-ai/donna/internal/google"
	"github.com/donna-ai/donna/internal/logging"
	"github.com/donna-ai/donna/internal/provider"
	"github.com/donna-ai/donna/internal/review"
	"github.com/donna-ai/donna/internal/tools"
)

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive assistant session",
		Long: `Start an interactive chat with the assistant. Requests are routed to
calendar and email agents; sensitive actions (sending email, changing
calendar events) pause for your approval before anything is executed.

Type 'help' inside the session for the available commands.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runChat(context.Background(), cfg)
		},
	}
}

// newLogger builds the process logger at the configured level. Output
// goes to stderr so stdout stays free for the conversation (chat) or
// the MCP protocol (serve).
func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Logging.Level)); err != nil {
		level = slog.LevelWarn
	}
	return logging.New(os.Stderr, level)
}

// buildProvider constructs the LLM backend selection made by
// ResolveProvider.
func buildProvider(r config.ResolvedProvider) provider.Provider {
	switch r.Name {
	case config.ProviderGroq:
		return provider.NewGroq(r.APIKey, r.Model)
	case config.ProviderGemini:
		return provider.NewGemini(r.APIKey, r.Model)
	case config.ProviderAnthropic:
		return provider.NewAnthropic(r.APIKey, r.Model)
	default:
		return provider.NewOpenAIProvider(r.APIKey, "", r.Model)
	}
}

func runChat(ctx context.Context, cfg *config.Config) error {
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	console := cli.NewConsole(os.Stdout)
	console.Welcome()

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
	gate := review.NewGate(cli.NewConsoleReviewer(os.Stdin, os.Stdout), runner,
		review.WithLogger(logger),
		review.WithReviewTimeout(cfg.ReviewTimeout()),
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

	stdin := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(os.Stdout, console.InputPrompt())
		if !stdin.Scan() {
			if err := stdin.Err(); err != nil {
				return err
			}
			console.Println()
			console.Info("Goodbye!")
			return nil
		}
		input := strings.TrimSpace(stdin.Text())
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "quit", "exit", "q":
			console.Info("Goodbye!")
			return nil
		case "help":
			console.Help()
			continue
		case "clear":
			assistant.Reset()
			console.Info("Conversation cleared.")
			continue
		case "status":
			console.Status(cli.Status{
				Provider:      resolved.Name,
				Model:         resolved.Model,
				UserName:      cfg.User.Name,
				UserEmail:     cfg.User.Email,
				Authenticated: tokens.HasToken(),
				ReviewTimeout: cfg.ReviewTimeout(),
			})
			continue
		}

		console.AssistantHeader()
		reply, err := assistant.HandleRequest(ctx, input)
		if err != nil {
			console.Error(err.Error())
			continue
		}
		console.AssistantReply(reply)
	}
}
