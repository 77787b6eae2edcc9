package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/simonyos/reactchat/internal/tui/theme"
)

// ThinkingText is shown while a turn runs.
const ThinkingText = "Agent thinking..."

// Status renders the status bar at the bottom
type Status struct {
	Width     int
	Model     string
	Thinking  bool
	Message   string
	ShowTrace bool
}

// NewStatus creates a new status bar
func NewStatus(width int) *Status {
	return &Status{Width: width}
}

// SetWidth updates the status bar width
func (s *Status) SetWidth(width int) {
	s.Width = width
}

// SetThinking sets the thinking state
func (s *Status) SetThinking(thinking bool) {
	s.Thinking = thinking
	if !thinking {
		s.Message = ""
	}
}

// SetMessage sets the status message shown while thinking
func (s *Status) SetMessage(msg string) {
	s.Message = msg
}

// SetModel sets the model name
func (s *Status) SetModel(model string) {
	s.Model = model
}

// SetShowTrace records whether thought processes are expanded
func (s *Status) SetShowTrace(show bool) {
	s.ShowTrace = show
}

// View renders the status bar
func (s *Status) View() string {
	t := theme.Current

	hintStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted)

	traceHint := "Ctrl+T show steps"
	if s.ShowTrace {
		traceHint = "Ctrl+T hide steps"
	}
	hint := hintStyle.Render("Enter to send · " + traceHint + " · Ctrl+C to quit")

	var rightContent string
	if s.Thinking {
		text := ThinkingText
		if s.Message != "" {
			text += " " + s.Message
		}
		rightContent = lipgloss.NewStyle().
			Foreground(t.Primary).
			Render("● " + text)
	} else {
		rightContent = lipgloss.NewStyle().
			Foreground(t.TextMuted).
			Background(t.BackgroundSecondary).
			Padding(0, 1).
			Render(s.Model)
	}

	spacing := s.Width - lipgloss.Width(hint) - lipgloss.Width(rightContent) - 2
	if spacing < 0 {
		spacing = 0
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Center,
		hint,
		lipgloss.NewStyle().Width(spacing).Render(""),
		rightContent,
	)
}
