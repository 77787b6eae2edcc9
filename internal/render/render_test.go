package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonyos/reactchat/internal/trace"
)

const transcript = "Thought: I need to multiply.\n" +
	"Action: Calculator\n" +
	"Action Input: 12*7\n" +
	"Observation: 84\n" +
	"Thought: I now know the final answer\n" +
	"Final Answer: 84\n"

func TestModeOf(t *testing.T) {
	tests := []struct {
		answer string
		want   Mode
	}{
		{answer: "84", want: Prose},
		{answer: "The capital of France is Paris.", want: Prose},
		{answer: "def add(a, b):\n    return a + b", want: Code},
		{answer: "  class Stack:\n    pass", want: Code},
		{answer: "async def main():\n    pass", want: Code},
		{answer: "func main() {}", want: Code},
		{answer: "Here you go:\n```python\nprint(1)\n```", want: Code},
		{answer: "define the term", want: Prose},
		{answer: "", want: Prose},
	}
	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			assert.Equal(t, tt.want, ModeOf(tt.answer))
		})
	}
}

func TestTurn_Steps(t *testing.T) {
	steps := trace.Steps(transcript)
	before := append([]trace.Step(nil), steps...)

	v := Turn("84", steps, transcript)
	assert.Equal(t, before, steps)
	assert.Equal(t, Prose, v.Mode)
	assert.Equal(t, StepsTitle, v.TraceTitle)
	require.Len(t, v.Trace, 15)

	assert.Equal(t, Block{Kind: Heading, Text: "Thought"}, v.Trace[0])
	assert.Equal(t, Block{Kind: Text, Text: "I need to multiply."}, v.Trace[1])
	assert.Equal(t, Block{Kind: Rule}, v.Trace[2])
	assert.Equal(t, Block{Kind: Heading, Text: "Action Input"}, v.Trace[6])
	assert.Equal(t, Block{Kind: Preformatted, Text: "12*7"}, v.Trace[7])
	assert.Equal(t, Block{Kind: Preformatted, Text: "84"}, v.Trace[10])
}

func TestTurn_Deterministic(t *testing.T) {
	steps := trace.Steps(transcript)
	assert.Equal(t, Turn("84", steps, transcript), Turn("84", steps, transcript))
}

func TestTurn_RawFallback(t *testing.T) {
	raw := "the model rambled without any labels"
	v := Turn("answer", nil, raw)
	assert.Equal(t, RawTitle, v.TraceTitle)
	assert.Equal(t, []Block{{Kind: Preformatted, Text: raw}}, v.Trace)

	empty := Turn("answer", nil, "  \n")
	assert.False(t, empty.HasTrace())
	assert.Empty(t, empty.TraceMarkdown())
}

func TestTurn_CodeAnswer(t *testing.T) {
	v := Turn("def add(a, b):\n    return a + b", nil, "")
	assert.Equal(t, Code, v.Mode)
	assert.False(t, v.Fenced)
	assert.Equal(t, "python", v.Language)
	assert.Equal(t, "```python\ndef add(a, b):\n    return a + b\n```\n", v.AnswerMarkdown())

	fenced := Turn("Sure:\n```go\nfunc f() {}\n```", nil, "")
	assert.True(t, fenced.Fenced)
	assert.Equal(t, "go", fenced.Language)
	assert.Equal(t, "Sure:\n```go\nfunc f() {}\n```\n", fenced.AnswerMarkdown())

	goFunc := Turn("func f() {}", nil, "")
	assert.Equal(t, "go", goFunc.Language)
}

func TestView_Markdown(t *testing.T) {
	v := Turn("84", trace.Steps(transcript), transcript)

	assert.Equal(t, "84\n", v.Markdown(false))

	md := v.Markdown(true)
	assert.Contains(t, md, "### "+StepsTitle)
	assert.Contains(t, md, "**Action Input:**\n\n```\n12*7\n```\n")
	assert.Contains(t, md, "**Thought:**\n\nI need to multiply.\n\n---\n\n")
}

func TestCodeBlock_NestedFence(t *testing.T) {
	got := codeBlock("```python\nx = 1\n```", "")
	assert.Equal(t, "````\n```python\nx = 1\n```\n````\n", got)
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "code", Code.String())
	assert.Equal(t, "prose", Prose.String())
}
