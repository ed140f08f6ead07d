package mcptools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"scicalc/internal/calculator"
	"scicalc/internal/session"
)

// PressTool presses keys on a session
type PressTool struct {
	sessions *session.Manager
}

func NewPressTool(sessions *session.Manager) *PressTool {
	return &PressTool{sessions: sessions}
}

// GetTool returns the MCP tool definition
func (t *PressTool) GetTool() mcp.Tool {
	return mcp.NewTool(ToolPress,
		mcp.WithDescription("Press keys on a calculator session. Keys are whitespace separated keypad labels; numbers such as 12.5 expand to one key per character. Example: \"2 xʸ 10 =\""),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id returned by "+ToolNewSession)),
		mcp.WithString("input", mcp.Required(), mcp.Description("Keys to press, e.g. \"AC 9 0 sin\"")),
	)
}

// Handle processes the tool request
func (t *PressTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := mcp.ParseString(req, "session_id", "")
	if id == "" {
		return mcp.NewToolResultError("session_id parameter is required"), nil
	}
	input := mcp.ParseString(req, "input", "")

	toks, err := calculator.ParseSequence(input)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid input: %v", err)), nil
	}
	if len(toks) == 0 {
		return mcp.NewToolResultError("input parameter is required"), nil
	}

	res, err := t.sessions.Press(ctx, id, toks)
	if errors.Is(err, session.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("Unknown session %q", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to press keys: %v", err)), nil
	}

	keys := make([]KeyResult, 0, len(res.Steps))
	for _, step := range res.Steps {
		keys = append(keys, KeyResult{
			Token:     step.Token.String(),
			Display:   step.Display.String(),
			ErrorKind: calculator.ErrorKind(step.Err),
		})
	}
	return jsonResult(PressResult{StateResult: stateResult(res.Snapshot), Keys: keys}), nil
}
