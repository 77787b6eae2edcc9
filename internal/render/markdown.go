package render

import (
	"strings"
)

// AnswerMarkdown renders the final answer.
func (v View) AnswerMarkdown() string {
	if v.Mode == Code && !v.Fenced {
		return codeBlock(v.Answer, v.Language)
	}
	return strings.TrimSpace(v.Answer) + "\n"
}

// TraceMarkdown renders the thought process section, or "" when there is none.
func (v View) TraceMarkdown() string {
	if !v.HasTrace() {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("### " + v.TraceTitle + "\n\n")
	for _, b := range v.Trace {
		switch b.Kind {
		case Heading:
			sb.WriteString("**" + b.Text + ":**\n\n")
		case Text:
			if b.Text != "" {
				sb.WriteString(b.Text + "\n\n")
			}
		case Preformatted:
			sb.WriteString(codeBlock(b.Text, ""))
			sb.WriteString("\n")
		case Rule:
			sb.WriteString("---\n\n")
		}
	}
	return sb.String()
}

// Markdown renders the answer followed, when withTrace is set, by the thought
// process section.
func (v View) Markdown(withTrace bool) string {
	out := v.AnswerMarkdown()
	if withTrace && v.HasTrace() {
		out += "\n" + v.TraceMarkdown()
	}
	return out
}

// codeBlock fences text with a fence longer than any backtick run inside it.
func codeBlock(text, lang string) string {
	f := fence
	for strings.Contains(text, f) {
		f += "`"
	}
	return f + lang + "\n" + strings.TrimRight(text, "\n") + "\n" + f + "\n"
}
