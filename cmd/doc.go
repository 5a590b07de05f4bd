// Package cmd implements the command-line interface for donna.
//
// This package provides the following commands:
//   - chat: Interactive assistant session with human review of sensitive actions
//   - demo: Run a scripted, non-interactive tour of the assistant
//   - auth: Authorize access to Google Calendar and Gmail
//   - serve: Start the MCP server to provide the assistant tools to AI clients
//   - generate-docs: Generate markdown documentation for the tools
//   - version: Display version information
//
// The chat command is the default command when no subcommand is specified.
package cmd
