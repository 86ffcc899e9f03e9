package mcpserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Bre77/wip/internal/domain/worklist"
	"github.com/Bre77/wip/internal/errs"
)

// SnapshotReader serves the most recently published worklist for a user.
type SnapshotReader interface {
	Snapshot(ctx context.Context, userKey string) ([]worklist.Item, bool, error)
}

type getWorkItemsInput struct {
	UserID string `json:"user_id" jsonschema:"GitHub user id whose work items to fetch"`
}

// NewServer builds the MCP server exposing the read-only query tool. The
// tool answers only from published snapshots; it never reaches upstream.
func NewServer(snapshots SnapshotReader) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "wip-tracker",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_work_items",
		Description: "Get the user's open pull requests and issues, grouped by priority.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in getWorkItemsInput) (*mcp.CallToolResult, any, error) {
		if strings.TrimSpace(in.UserID) == "" {
			return nil, nil, fmt.Errorf("user_id is required")
		}

		items, found, err := snapshots.Snapshot(ctx, in.UserID)
		if err != nil {
			return nil, nil, errs.Wrap(err, "read snapshot")
		}

		var text string
		if !found {
			text = "No work item snapshot is available for this user yet. " +
				"Ask them to open their work-in-progress dashboard to publish one."
		} else {
			text = RenderSummary(items)
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil, nil
	})

	return server
}

// NewHandler exposes the MCP server over streamable HTTP.
func NewHandler(snapshots SnapshotReader) http.Handler {
	server := NewServer(snapshots)
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
}
