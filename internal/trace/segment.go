package trace

import (
	"iter"
	"slices"
	"strings"
)

// Step is one labelled segment of a transcript. Text is the exact substring
// between the label token and the next label (or end of input).
type Step struct {
	Label Label
	Text  string
}

// Body returns the step text trimmed and with emitter escapes removed.
func (s Step) Body() string {
	return strings.TrimSpace(Unescape(s.Text))
}

// Segment returns the steps of transcript in order. The sequence is lazy and
// can be ranged over any number of times; each pass rescans the text.
// A transcript without labels yields nothing.
func Segment(transcript string) iter.Seq[Step] {
	return func(yield func(Step) bool) {
		pos, label, ok := nextLabel(transcript, 0)
		for ok {
			start := pos + len(label.Token())
			nextPos, nextLab, found := nextLabel(transcript, start)
			end := len(transcript)
			if found {
				end = nextPos
			}
			if !yield(Step{Label: label, Text: transcript[start:end]}) {
				return
			}
			pos, label, ok = nextPos, nextLab, found
		}
	}
}

// Steps collects Segment(transcript).
func Steps(transcript string) []Step {
	return slices.Collect(Segment(transcript))
}

// Split returns the text before the first label and the steps after it.
// preamble + Σ(label token + step text) reproduces transcript exactly.
func Split(transcript string) (preamble string, steps []Step) {
	pos, _, ok := nextLabel(transcript, 0)
	if !ok {
		return transcript, nil
	}
	return transcript[:pos], Steps(transcript)
}

// Join is the inverse of Split.
func Join(preamble string, steps []Step) string {
	var sb strings.Builder
	sb.WriteString(preamble)
	for _, s := range steps {
		sb.WriteString(s.Label.Token())
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// nextLabel finds the first label token at a line start at or after from.
func nextLabel(text string, from int) (int, Label, bool) {
	for i := from; i < len(text); {
		if i == 0 || text[i-1] == '\n' {
			if l, ok := labelAt(text[i:]); ok {
				return i, l, true
			}
		}
		nl := strings.IndexByte(text[i:], '\n')
		if nl < 0 {
			break
		}
		i += nl + 1
	}
	return 0, 0, false
}

func labelAt(line string) (Label, bool) {
	for _, l := range matchOrder {
		if strings.HasPrefix(line, l.Token()) {
			return l, true
		}
	}
	return 0, false
}
