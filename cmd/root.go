package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the donna application
var rootCmd = &cobra.Command{
	Use:   "donna",
	Short: "Executive assistant for Google Calendar and Gmail with human review",
	Long: `donna is a personal executive assistant that routes natural-language
requests to calendar and email agents. Sensitive operations (sending
email, changing calendar events) are held for human review before
anything reaches the Google APIs.

It can run as:
  - An interactive chat session (default)
  - A scripted demo (donna demo)
  - An MCP (Model Context Protocol) server for AI assistants (donna serve)`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "donna version %s\n" .Version}}`)

	// A .env next to the binary is the simplest way to carry API keys in
	// development. Missing files are fine.
	_ = godotenv.Load()

	// If no subcommand is provided, start an interactive chat by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "chat")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newDemoCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
