package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/donna-ai/donna/internal/mcpserver"
	"github.com/donna-ai/donna/internal/review"
	"github.com/donna-ai/donna/internal/tools"
)

func newGenerateDocsCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate MCP tool documentation",
		Long: `Generate markdown documentation for the assistant's MCP tools. The
command introspects the registered tools and renders their schemas, so
the documentation always matches the implementation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerateDocs(outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runGenerateDocs(outputFile string) error {
	// Registration needs a gate, but no handler runs during
	// introspection, so the reviewer policy and invoker stay inert.
	gate := review.NewGate(mcpserver.NewPolicyReviewer(false, nil), nil)
	srv := mcpserver.New(gate, version)

	serverTools := srv.ListTools()
	defs := make([]mcp.Tool, 0, len(serverTools))
	for _, serverTool := range serverTools {
		defs = append(defs, serverTool.Tool)
	}

	markdown := generateToolsMarkdown(defs)

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(markdown), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Documentation written to: %s\n", outputFile)
	} else {
		fmt.Print(markdown)
	}

	return nil
}

func generateToolsMarkdown(defs []mcp.Tool) string {
	var sb strings.Builder

	sb.WriteString("# MCP Tools Reference\n\n")
	sb.WriteString("This document lists the tools available when running donna as an MCP server.\n\n")
	sb.WriteString("**Note:** This documentation is generated from the tool definitions.\n\n")

	byCategory := groupToolsByCategory(defs)

	sb.WriteString("## Table of Contents\n\n")
	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		anchor := strings.ToLower(strings.ReplaceAll(category, " ", "-"))
		sb.WriteString(fmt.Sprintf("- [%s](#%s)\n", category, anchor))
	}
	sb.WriteString("\n")

	sb.WriteString("## Review Gate\n\n")
	sb.WriteString("Every tool call passes through the review gate. Read operations are approved automatically. ")
	sb.WriteString("Sensitive operations (sending email, changing calendar events) need a reviewer: ")
	sb.WriteString("in serve mode there is none, so they are rejected unless the server runs with `--yolo`.\n\n")

	for _, category := range categories {
		categoryTools := byCategory[category]
		sort.Slice(categoryTools, func(i, j int) bool {
			return categoryTools[i].Name < categoryTools[j].Name
		})

		sb.WriteString(fmt.Sprintf("## %s\n\n", category))

		for _, tool := range categoryTools {
			sb.WriteString(generateToolMarkdown(tool))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func groupToolsByCategory(defs []mcp.Tool) map[string][]mcp.Tool {
	categories := make(map[string][]mcp.Tool)

	for _, def := range defs {
		category := categoryTitle(def.Name)
		categories[category] = append(categories[category], def)
	}

	return categories
}

func categoryTitle(name string) string {
	switch tools.Name(name).Category() {
	case "calendar":
		return "Calendar Tools"
	case "email":
		return "Email Tools"
	default:
		return "Other"
	}
}

// reviewLabel names the gate's handling of a tool. Drafting mail is the
// one argument-dependent case; everything else classifies statically.
func reviewLabel(name string) string {
	if tools.Name(name) == tools.DraftEmail {
		return "auto-approved; requires review when `send` is true"
	}
	sensitivity, err := review.Classify(tools.Name(name), nil)
	if err != nil || sensitivity == review.RequiresReview {
		return "requires review"
	}
	return "auto-approved"
}

func generateToolMarkdown(tool mcp.Tool) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("### %s\n\n", tool.Name))

	if tool.Description != "" {
		sb.WriteString(fmt.Sprintf("%s\n\n", tool.Description))
	}

	sb.WriteString(fmt.Sprintf("**Review:** %s\n\n", reviewLabel(tool.Name)))

	if len(tool.InputSchema.Properties) > 0 {
		sb.WriteString("**Arguments:**\n")

		// Sort properties for consistent output
		propNames := make([]string, 0, len(tool.InputSchema.Properties))
		for name := range tool.InputSchema.Properties {
			propNames = append(propNames, name)
		}
		sort.Strings(propNames)

		for _, name := range propNames {
			prop := tool.InputSchema.Properties[name]
			isRequired := contains(tool.InputSchema.Required, name)

			requiredStr := "optional"
			if isRequired {
				requiredStr = "required"
			}

			propMap, ok := prop.(map[string]interface{})
			if !ok {
				continue
			}

			sb.WriteString(fmt.Sprintf("- `%s` (%s): ", name, requiredStr))

			if desc, ok := propMap["description"].(string); ok {
				sb.WriteString(desc)
			} else {
				sb.WriteString(fmt.Sprintf("%s parameter", getPropertyType(propMap)))
			}

			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func getPropertyType(prop map[string]interface{}) string {
	if t, ok := prop["type"].(string); ok {
		return t
	}
	return "any"
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
