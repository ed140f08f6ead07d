package mcptools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"scicalc/internal/session"
)

func call(t *testing.T, handle func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) *mcp.CallToolResult {
	t.Helper()
	request := mcp.CallToolRequest{}
	request.Params.Arguments = args
	result, err := handle(context.Background(), request)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func decode[T any](t *testing.T, result *mcp.CallToolResult) T {
	t.Helper()
	require.False(t, result.IsError, resultText(t, result))
	var v T
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &v))
	return v
}

func TestSessionTools(t *testing.T) {
	manager := session.NewManager(session.NewMemory())

	created := decode[StateResult](t, call(t, NewNewSessionTool(manager).Handle, nil))
	require.NotEmpty(t, created.SessionID)
	assert.Equal(t, "0", created.Display)
	assert.Equal(t, "DEG", created.AngleMode)

	press := NewPressTool(manager)
	pressed := decode[PressResult](t, call(t, press.Handle, map[string]any{
		"session_id": created.SessionID,
		"input":      "2 xʸ 10 =",
	}))
	assert.Equal(t, "1024", pressed.Display)
	require.Len(t, pressed.Keys, 5)
	assert.Equal(t, "xʸ", pressed.Keys[1].Token)

	pressed = decode[PressResult](t, call(t, press.Handle, map[string]any{
		"session_id": created.SessionID,
		"input":      "/ 0 =",
	}))
	assert.Equal(t, "Error", pressed.Display)
	assert.Equal(t, "division_by_zero", pressed.Keys[2].ErrorKind)

	state := decode[StateResult](t, call(t, NewStateTool(manager).Handle, map[string]any{
		"session_id": created.SessionID,
	}))
	assert.Equal(t, "Error", state.Display)
	assert.True(t, state.State.Display.IsError())
}

func TestSessionToolErrors(t *testing.T) {
	manager := session.NewManager(session.NewMemory())
	press := NewPressTool(manager)
	state := NewStateTool(manager)

	tests := []struct {
		name   string
		handle func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args   map[string]any
	}{
		{name: "press without session", handle: press.Handle, args: map[string]any{"input": "1"}},
		{name: "press unknown session", handle: press.Handle, args: map[string]any{"session_id": "nope", "input": "1"}},
		{name: "press bad token", handle: press.Handle, args: map[string]any{"session_id": "nope", "input": "1 bogus"}},
		{name: "press empty input", handle: press.Handle, args: map[string]any{"session_id": "nope", "input": " "}},
		{name: "state without session", handle: state.Handle, args: map[string]any{}},
		{name: "state unknown session", handle: state.Handle, args: map[string]any{"session_id": "nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := call(t, tt.handle, tt.args)
			assert.True(t, result.IsError)
		})
	}
}

func TestEvaluateTool(t *testing.T) {
	tool := NewEvaluateTool()

	tests := []struct {
		name      string
		args      map[string]any
		display   string
		errorKind string
	}{
		{name: "add", args: map[string]any{"a": float64(0.1), "b": float64(0.2), "op": "+"}, display: "0.3"},
		{name: "power", args: map[string]any{"a": float64(2), "b": float64(10), "op": "^"}, display: "1024"},
		{name: "large", args: map[string]any{"a": float64(1e6), "b": float64(1e6), "op": "×"}, display: "1.000000e+12"},
		{name: "division by zero", args: map[string]any{"a": float64(1), "b": float64(0), "op": "/"}, display: "Error", errorKind: "division_by_zero"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decode[EvaluateResult](t, call(t, tool.Handle, tt.args))
			assert.Equal(t, tt.display, got.Display)
			assert.Equal(t, tt.errorKind, got.ErrorKind)
		})
	}

	result := call(t, tool.Handle, map[string]any{"a": float64(1), "b": float64(2), "op": "mod"})
	assert.True(t, result.IsError)
}

func TestServerTools(t *testing.T) {
	s := NewServer("scicalc", "test", session.NewManager(session.NewMemory()), zap.NewNop())

	var names []string
	for _, tool := range s.Tools() {
		names = append(names, tool.Tool.Name)
		assert.NotEmpty(t, tool.Tool.Description)
		assert.NotNil(t, tool.Handler)
	}
	assert.Equal(t, []string{ToolNewSession, ToolPress, ToolState, ToolEvaluate}, names)
}
