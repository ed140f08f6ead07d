package mcptools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"scicalc/internal/calculator"
)

// EvaluateTool applies one binary operator without a session
type EvaluateTool struct{}

func NewEvaluateTool() *EvaluateTool {
	return &EvaluateTool{}
}

// GetTool returns the MCP tool definition
func (t *EvaluateTool) GetTool() mcp.Tool {
	return mcp.NewTool(ToolEvaluate,
		mcp.WithDescription("Compute a op b and format it the way the calculator display would"),
		mcp.WithNumber("a", mcp.Required(), mcp.Description("Left operand")),
		mcp.WithNumber("b", mcp.Required(), mcp.Description("Right operand")),
		mcp.WithString("op", mcp.Required(), mcp.Description("Operator: +, -, *, / or ^")),
	)
}

// Handle processes the tool request. Calculator faults are ordinary results
// with an Error display.
func (t *EvaluateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := mcp.ParseFloat64(req, "a", 0)
	b := mcp.ParseFloat64(req, "b", 0)

	op, err := calculator.ParseOperator(mcp.ParseString(req, "op", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid operator: %v", err)), nil
	}

	d, err := calculator.Evaluate(a, b, op)
	return jsonResult(EvaluateResult{
		A:         a,
		B:         b,
		Op:        op.String(),
		Display:   d.String(),
		ErrorKind: calculator.ErrorKind(err),
	}), nil
}
