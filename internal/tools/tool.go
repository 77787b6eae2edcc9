package tools

import (
	"context"
	"fmt"
)

// MaxInputLen bounds the Action Input accepted by any tool.
const MaxInputLen = 64 << 10

// Tool is the interface all tools must implement
type Tool interface {
	// Definition returns the structured tool definition
	Definition() ToolDefinition

	// Execute runs the tool on the raw Action Input. Failures are reported in
	// the result, never as a panic.
	Execute(ctx context.Context, input string) ToolResult

	// Validate checks if the input is acceptable
	Validate(input string) error
}

// BaseTool provides common functionality for tools
type BaseTool struct {
	Def ToolDefinition
}

// Definition returns the tool definition
func (b *BaseTool) Definition() ToolDefinition {
	return b.Def
}

// Validate rejects oversized input
func (b *BaseTool) Validate(input string) error {
	if len(input) > MaxInputLen {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(input), MaxInputLen)
	}
	return nil
}
