package mcptools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"scicalc/internal/session"
)

// NewSessionTool starts calculator sessions
type NewSessionTool struct {
	sessions *session.Manager
}

func NewNewSessionTool(sessions *session.Manager) *NewSessionTool {
	return &NewSessionTool{sessions: sessions}
}

// GetTool returns the MCP tool definition
func (t *NewSessionTool) GetTool() mcp.Tool {
	return mcp.NewTool(ToolNewSession,
		mcp.WithDescription("Start a new calculator session in the power-on state and return its id"),
	)
}

// Handle processes the tool request
func (t *NewSessionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := t.sessions.Create(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create session: %v", err)), nil
	}
	return jsonResult(stateResult(snap)), nil
}
