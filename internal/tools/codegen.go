package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/simonyos/reactchat/internal/llm"
)

const (
	// CodeGeneratorName is the registry name of CodeGeneratorTool.
	CodeGeneratorName = "CodeGenerator"
	// CodeTemperature is the sampling temperature for code generation.
	CodeTemperature = 0.2
	// CodeMaxTokens caps the length of one generated snippet.
	CodeMaxTokens = 2048

	codePrompt = "Generate Python code for the following request:\n\n%s\n\n```python\n"
)

// CodeGeneratorTool asks a separate model for Python code.
type CodeGeneratorTool struct {
	BaseTool
	provider    llm.Provider
	temperature float64
}

// NewCodeGeneratorTool creates a code generator backed by provider
func NewCodeGeneratorTool(provider llm.Provider) *CodeGeneratorTool {
	return &CodeGeneratorTool{
		BaseTool: BaseTool{
			Def: ToolDefinition{
				Name:        CodeGeneratorName,
				Description: "Useful for when you need to generate Python code snippets or functions. Input should be a clear and concise coding request.",
			},
		},
		provider:    provider,
		temperature: CodeTemperature,
	}
}

// Execute generates code for the request
func (t *CodeGeneratorTool) Execute(ctx context.Context, input string) ToolResult {
	request := strings.TrimSpace(input)
	if request == "" {
		return Failure("Error generating code: empty request")
	}
	out, err := t.provider.Generate(ctx,
		[]llm.Message{llm.User(fmt.Sprintf(codePrompt, request))},
		llm.WithTemperature(t.temperature),
		llm.WithMaxTokens(CodeMaxTokens),
	)
	if err != nil {
		return Failure(fmt.Sprintf("Error generating code: %v", err))
	}
	return Ok(StripCodeFence(out))
}

// StripCodeFence removes a leading ```python (or bare ```) fence and a
// trailing ``` fence.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "```python"):
		s = strings.TrimSpace(s[len("```python"):])
	case strings.HasPrefix(s, "```"):
		s = strings.TrimSpace(s[len("```"):])
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(s[:len(s)-len("```")])
	}
	return s
}
