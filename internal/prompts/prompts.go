// Package prompts renders the ReAct prompt sent to the control loop model.
package prompts

import (
	"bytes"
	_ "embed"
	"strings"
	"text/template"
)

// RefusalAnswer is the exact answer the model is told to give when a tool
// reports that it has no information.
const RefusalAnswer = "I cannot answer that question with the available tools."

//go:embed react_system.tmpl
var reactSystemTemplateContent string

// DefaultSystemTemplate is the ReAct system prompt template.
var DefaultSystemTemplate = template.Must(
	template.New("react_system").Parse(reactSystemTemplateContent),
)

// SystemPromptData contains the data passed to the system template.
type SystemPromptData struct {
	// Tools holds one "Name: Description" line per tool.
	Tools string
	// ToolNames is the comma separated list of tool names.
	ToolNames string
	// Refusal is the answer to give when a tool has no information.
	Refusal string
	// CustomRules are appended verbatim when set.
	CustomRules string
}

// PromptBuilder constructs the system prompt
type PromptBuilder struct {
	tmpl *template.Template
	data SystemPromptData
}

// NewPromptBuilder creates a builder for the given tool descriptions and names.
func NewPromptBuilder(tools string, names []string) *PromptBuilder {
	return &PromptBuilder{
		tmpl: DefaultSystemTemplate,
		data: SystemPromptData{
			Tools:     tools,
			ToolNames: strings.Join(names, ", "),
			Refusal:   RefusalAnswer,
		},
	}
}

// WithCustomRules adds user-defined rules
func (b *PromptBuilder) WithCustomRules(rules string) *PromptBuilder {
	b.data.CustomRules = strings.TrimSpace(rules)
	return b
}

// Build generates the complete system prompt
func (b *PromptBuilder) Build() (string, error) {
	var buf bytes.Buffer
	if err := b.tmpl.Execute(&buf, b.data); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()) + "\n", nil
}

// UserPrompt renders the human turn: the question followed by the
// scratchpad of earlier steps in this run.
func UserPrompt(question, scratchpad string) string {
	if scratchpad == "" {
		return question + "\n\n"
	}
	return question + "\n\n" + scratchpad
}
