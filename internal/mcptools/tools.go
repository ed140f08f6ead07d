// Package mcptools exposes calculator sessions as Model Context Protocol tools.
package mcptools

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"scicalc/internal/calculator"
	"scicalc/internal/session"
)

// Tool name prefix for all MCP tools
const ToolPrefix = "calculator."

// Tool names
const (
	ToolNewSession = ToolPrefix + "new_session"
	ToolPress      = ToolPrefix + "press"
	ToolState      = ToolPrefix + "state"
	ToolEvaluate   = ToolPrefix + "evaluate"
)

// StateResult is the JSON payload returned by the session tools.
type StateResult struct {
	SessionID string           `json:"session_id"`
	Display   string           `json:"display"`
	AngleMode string           `json:"angle_mode"`
	State     calculator.State `json:"state"`
}

// PressResult adds the per-key displays to StateResult.
type PressResult struct {
	StateResult
	Keys []KeyResult `json:"keys"`
}

// KeyResult records one applied key.
type KeyResult struct {
	Token     string `json:"token"`
	Display   string `json:"display"`
	ErrorKind string `json:"error_kind,omitempty"`
}

// EvaluateResult is the JSON payload of calculator.evaluate.
type EvaluateResult struct {
	A         float64 `json:"a"`
	B         float64 `json:"b"`
	Op        string  `json:"op"`
	Display   string  `json:"display"`
	ErrorKind string  `json:"error_kind,omitempty"`
}

func stateResult(snap session.Snapshot) StateResult {
	return StateResult{
		SessionID: snap.ID,
		Display:   snap.State.Display.String(),
		AngleMode: snap.State.AngleMode.String(),
		State:     snap.State,
	}
}

// jsonResult encodes v as the text content of a tool result.
func jsonResult(v any) *mcp.CallToolResult {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err))
	}
	return mcp.NewToolResultText(string(b))
}
