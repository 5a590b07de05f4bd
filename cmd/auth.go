package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/donna-ai/donna/internal/cli"
	"github.com/donna-ai/donna/internal/config"
	"github.com/donna-ai/donna/internal/google"
)

func newAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize access to Google Calendar and Gmail",
		Long: `Authorize the assistant against your Google account. The command
prints an authorization URL to open in a browser, then waits for the
authorization code to be pasted back. The resulting token is cached
for the other commands.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Google.ClientID == "" || cfg.Google.ClientSecret == "" {
				return fmt.Errorf("Google OAuth client is not configured: set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET (create an OAuth client of type 'Desktop app' in the Google Cloud console)")
			}
			return runAuth(context.Background(), cfg)
		},
	}
}

func runAuth(ctx context.Context, cfg *config.Config) error {
	console := cli.NewConsole(os.Stdout)

	if google.HasToken() {
		console.Info("A Google token is already cached; completing the flow replaces it.")
	}

	conf := google.NewOAuthConfig(cfg.Google.ClientID, cfg.Google.ClientSecret)

	console.Println("Visit the URL below, authorize access, and paste the code back here.")
	console.Println()
	console.Println(google.GetAuthURL(conf))
	console.Println()

	fmt.Print("Authorization code: ")
	stdin := bufio.NewScanner(os.Stdin)
	if !stdin.Scan() {
		if err := stdin.Err(); err != nil {
			return err
		}
		return fmt.Errorf("no authorization code provided")
	}
	code := strings.TrimSpace(stdin.Text())
	if code == "" {
		return fmt.Errorf("no authorization code provided")
	}

	if err := google.SaveToken(ctx, conf, code); err != nil {
		return err
	}

	console.Success("Authorization complete. Token saved to " + google.TokenFilePath())
	return nil
}
