package trace

import (
	"io"
	"strings"
)

// FinalAnswerToken closes a transcript. It is not a step label: the final
// answer stays inside the text of the last Thought step.
const FinalAnswerToken = "Final Answer:"

// Writer builds a transcript one field at a time. Body lines that would be
// read back as labels are escaped with a leading backslash.
type Writer struct {
	sb  strings.Builder
	tee io.Writer
}

// NewWriter returns a Writer that also copies everything to tee when non-nil.
func NewWriter(tee io.Writer) *Writer {
	return &Writer{tee: tee}
}

// Thought records a reasoning statement.
func (w *Writer) Thought(text string) { w.field(Thought.Token(), text) }

// Action records the selected tool name.
func (w *Writer) Action(tool string) { w.field(Action.Token(), tool) }

// ActionInput records the input passed to the tool.
func (w *Writer) ActionInput(input string) { w.field(ActionInput.Token(), input) }

// Observation records a tool result.
func (w *Writer) Observation(text string) { w.field(Observation.Token(), text) }

// FinalAnswer records the loop's final answer.
func (w *Writer) FinalAnswer(text string) { w.field(FinalAnswerToken, text) }

// String returns the transcript written so far.
func (w *Writer) String() string {
	return w.sb.String()
}

func (w *Writer) field(token, body string) {
	body = strings.TrimSpace(body)
	line := token
	if body != "" {
		line += " " + Escape(body)
	}
	w.write(line + "\n")
}

func (w *Writer) write(s string) {
	w.sb.WriteString(s)
	if w.tee != nil {
		_, _ = io.WriteString(w.tee, s)
	}
}

// Escape prefixes a backslash to every line after the first that starts,
// after any existing backslashes, with a label token.
func Escape(body string) string {
	return mapContinuationLines(body, func(line string) string {
		if isLabelLine(line) {
			return `\` + line
		}
		return line
	})
}

// Unescape reverses Escape.
func Unescape(body string) string {
	return mapContinuationLines(body, func(line string) string {
		if strings.HasPrefix(line, `\`) && isLabelLine(line) {
			return line[1:]
		}
		return line
	})
}

func isLabelLine(line string) bool {
	_, ok := labelAt(strings.TrimLeft(line, `\`))
	return ok
}

func mapContinuationLines(body string, fn func(string) string) string {
	if !strings.Contains(body, "\n") {
		return body
	}
	lines := strings.Split(body, "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = fn(lines[i])
	}
	return strings.Join(lines, "\n")
}
