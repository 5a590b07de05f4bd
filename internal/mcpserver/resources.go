package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/donna-ai/donna/internal/review"
)

// registerResources exposes the gate's session record so MCP clients
// can inspect what the assistant was allowed to do.
func registerResources(s *server.MCPServer, g *review.Gate) {
	historyResource := mcp.NewResource(
		"donna://review/history",
		"Review History",
		mcp.WithResourceDescription("Resolved tool invocations and their review verdicts for this session"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(historyResource, func(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleReviewHistory(request, g)
	})
}

// historyEntry is the serialized form of one gate outcome. Tool output
// is reduced to a status so the resource stays small and free of
// message bodies.
type historyEntry struct {
	ID         string    `json:"id"`
	Tool       string    `json:"tool"`
	Verdict    string    `json:"verdict"`
	Status     string    `json:"status"`
	Reason     string    `json:"reason,omitempty"`
	ResolvedAt time.Time `json:"resolved_at"`
}

func handleReviewHistory(request mcp.ReadResourceRequest, g *review.Gate) ([]mcp.ResourceContents, error) {
	outcomes := g.History()

	entries := make([]historyEntry, 0, len(outcomes))
	for _, outcome := range outcomes {
		entry := historyEntry{
			ID:         outcome.Request.ID,
			Tool:       string(outcome.Request.Tool),
			Verdict:    string(outcome.Decision.Verdict),
			Reason:     outcome.Decision.Reason,
			ResolvedAt: outcome.ResolvedAt,
		}
		switch {
		case outcome.Rejection != nil:
			entry.Status = "rejected"
		case outcome.Result != nil && outcome.Result.IsError:
			entry.Status = "error"
		default:
			entry.Status = "success"
		}
		entries = append(entries, entry)
	}

	jsonData, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal review history: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
