package components

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/simonyos/reactchat/internal/tui/theme"
)

// oscSequence matches terminal OSC replies (such as background colour
// queries) that can leak into the input before the program owns the tty.
var oscSequence = regexp.MustCompile(`\x1b?\]\d+;[^\x07\x1b\s]*(\x07|\x1b\\)?`)

// Editor is the question input component
type Editor struct {
	textarea textarea.Model
	width    int
	height   int
	focused  bool
}

// NewEditor creates a new editor component
func NewEditor(width, height int) *Editor {
	ta := textarea.New()
	ta.Placeholder = "Ask a math question, look up a fact or request some code..."
	ta.Focus()
	ta.Prompt = "┃ "
	ta.SetWidth(width - 6)
	ta.SetHeight(height - 2)
	ta.ShowLineNumbers = false
	ta.CharLimit = 0

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(theme.Current.TextMuted)

	return &Editor{
		textarea: ta,
		width:    width,
		height:   height,
		focused:  true,
	}
}

// SetSize updates the editor dimensions
func (e *Editor) SetSize(width, height int) {
	e.width = width
	e.height = height
	e.textarea.SetWidth(width - 6)
	e.textarea.SetHeight(height - 2)
}

// Focus focuses the editor
func (e *Editor) Focus() {
	e.focused = true
	e.textarea.Focus()
}

// Blur unfocuses the editor
func (e *Editor) Blur() {
	e.focused = false
	e.textarea.Blur()
}

// Value returns the trimmed text with stray terminal replies removed.
func (e *Editor) Value() string {
	return CleanInput(e.textarea.Value())
}

// CleanInput strips OSC replies and surrounding space from raw input.
func CleanInput(val string) string {
	val = oscSequence.ReplaceAllString(val, "")
	val = strings.ReplaceAll(val, "\x1b", "")
	return strings.TrimSpace(val)
}

// Reset clears the editor
func (e *Editor) Reset() {
	e.textarea.Reset()
}

// SetValue sets the editor content
func (e *Editor) SetValue(value string) {
	e.textarea.SetValue(value)
}

// Update handles textarea updates
func (e *Editor) Update(msg tea.Msg) (*Editor, tea.Cmd) {
	var cmd tea.Cmd
	e.textarea, cmd = e.textarea.Update(msg)
	return e, cmd
}

// View renders the editor
func (e *Editor) View() string {
	t := theme.Current

	borderColor := t.Border
	if e.focused {
		borderColor = t.BorderFocus
	}

	container := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(e.width - 2).
		Padding(0, 1)

	return container.Render(e.textarea.View())
}
