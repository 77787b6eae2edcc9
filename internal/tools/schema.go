package tools

// ToolDefinition names a tool and tells the model when to use it.
type ToolDefinition struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ToolCall represents a parsed tool invocation: the Action and Action Input
// fields of one loop step.
type ToolCall struct {
	Name  string `json:"name"`
	Input string `json:"input"`
}

// ToolResult represents the output of a tool execution. Output is always the
// observation text, including on failure.
type ToolResult struct {
	Success bool   `json:"success"`
	Output  string `json:"output"`
}

// Failure builds an unsuccessful result.
func Failure(output string) ToolResult {
	return ToolResult{Success: false, Output: output}
}

// Ok builds a successful result.
func Ok(output string) ToolResult {
	return ToolResult{Success: true, Output: output}
}
