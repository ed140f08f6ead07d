package mcptools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"scicalc/internal/session"
)

// StateTool reports a session's state
type StateTool struct {
	sessions *session.Manager
}

func NewStateTool(sessions *session.Manager) *StateTool {
	return &StateTool{sessions: sessions}
}

// GetTool returns the MCP tool definition
func (t *StateTool) GetTool() mcp.Tool {
	return mcp.NewTool(ToolState,
		mcp.WithDescription("Show the display, pending operation and angle mode of a calculator session"),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id returned by "+ToolNewSession)),
	)
}

// Handle processes the tool request
func (t *StateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := mcp.ParseString(req, "session_id", "")
	if id == "" {
		return mcp.NewToolResultError("session_id parameter is required"), nil
	}

	snap, err := t.sessions.Get(ctx, id)
	if errors.Is(err, session.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("Unknown session %q", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to load session: %v", err)), nil
	}
	return jsonResult(stateResult(snap)), nil
}
