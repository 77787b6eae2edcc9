// Package render turns a finished turn into display instructions.
//
// Turn is pure: the same answer, steps and raw transcript always produce the
// same View, and the inputs are never modified. Front ends render a View with
// Markdown and pass the result through glamour.
package render

import (
	"strings"

	"github.com/simonyos/reactchat/internal/trace"
)

// Mode says how the final answer is displayed.
type Mode int

const (
	Prose Mode = iota
	Code
)

func (m Mode) String() string {
	if m == Code {
		return "code"
	}
	return "prose"
}

// BlockKind is the kind of one trace display block.
type BlockKind int

const (
	Heading BlockKind = iota
	Text
	Preformatted
	Rule
)

// Block is one display instruction in the thought process section.
type Block struct {
	Kind BlockKind
	Text string
}

// Section titles.
const (
	StepsTitle = "Agent's Thought Process (Step-by-Step)"
	RawTitle   = "Agent's Thought Process (Raw Output)"
)

// DefaultLanguage is the code language assumed for code answers.
const DefaultLanguage = "python"

// codePrefixes mark an answer as code when it starts with one of them.
var codePrefixes = []string{"def ", "class ", "func ", "async def "}

const fence = "```"

// View is the render instruction set for one turn.
type View struct {
	Answer   string
	Mode     Mode
	Language string
	// Fenced reports that a code answer already carries its own fences.
	Fenced bool

	TraceTitle string
	Trace      []Block
}

// HasTrace reports whether there is a thought process section.
func (v View) HasTrace() bool {
	return len(v.Trace) > 0
}

// Turn builds the View for answer, its parsed steps and the raw transcript.
func Turn(answer string, steps []trace.Step, raw string) View {
	v := View{Answer: answer, Mode: ModeOf(answer)}
	if v.Mode == Code {
		v.Fenced = strings.Contains(answer, fence)
		v.Language = languageOf(answer)
	}

	switch {
	case len(steps) > 0:
		v.TraceTitle = StepsTitle
		v.Trace = make([]Block, 0, len(steps)*3)
		for _, s := range steps {
			v.Trace = append(v.Trace, stepBlocks(s)...)
		}
	case strings.TrimSpace(raw) != "":
		v.TraceTitle = RawTitle
		v.Trace = []Block{{Kind: Preformatted, Text: raw}}
	}
	return v
}

// ModeOf classifies an answer as code or prose.
func ModeOf(answer string) Mode {
	trimmed := strings.TrimSpace(answer)
	for _, p := range codePrefixes {
		if strings.HasPrefix(trimmed, p) {
			return Code
		}
	}
	if strings.Contains(trimmed, fence) {
		return Code
	}
	return Prose
}

func languageOf(answer string) string {
	i := strings.Index(answer, fence)
	if i < 0 {
		if strings.HasPrefix(strings.TrimSpace(answer), "func ") {
			return "go"
		}
		return DefaultLanguage
	}
	rest := answer[i+len(fence):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	if lang := strings.TrimSpace(rest); lang != "" && !strings.ContainsAny(lang, " `") {
		return lang
	}
	return DefaultLanguage
}

func stepBlocks(s trace.Step) []Block {
	body := s.Body()
	kind := Text
	if s.Label == trace.ActionInput || s.Label == trace.Observation {
		kind = Preformatted
	}
	return []Block{
		{Kind: Heading, Text: s.Label.String()},
		{Kind: kind, Text: body},
		{Kind: Rule},
	}
}
