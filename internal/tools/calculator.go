package tools

import (
	"context"
	"strings"

	"github.com/simonyos/reactchat/internal/arith"
)

// CalculatorName is the registry name of CalculatorTool.
const CalculatorName = "Calculator"

// CalculatorTool evaluates arithmetic expressions exactly.
type CalculatorTool struct {
	BaseTool
}

// NewCalculatorTool creates a new calculator tool
func NewCalculatorTool() *CalculatorTool {
	return &CalculatorTool{
		BaseTool: BaseTool{
			Def: ToolDefinition{
				Name:        CalculatorName,
				Description: "Useful for when you need to perform exact mathematical calculations. Input should be a precise mathematical expression (e.g., '2+2', '10*5', '30/6').",
			},
		},
	}
}

// Execute evaluates the expression
func (t *CalculatorTool) Execute(_ context.Context, input string) ToolResult {
	out, err := arith.EvalString(unquote(input))
	if err != nil {
		return Failure("Error: Could not calculate. " + err.Error())
	}
	return Ok(out)
}

// unquote strips whitespace and one pair of matching quotes or backticks,
// which models often wrap around an Action Input.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '\'' || first == '"' || first == '`') {
			return strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}
