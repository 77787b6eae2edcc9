package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/simonyos/reactchat/internal/tui/theme"
)

// Header renders the application header
type Header struct {
	Width     int
	Version   string
	Model     string
	SessionID string
}

// NewHeader creates a new header component
func NewHeader(width int, version, model, sessionID string) *Header {
	return &Header{
		Width:     width,
		Version:   version,
		Model:     model,
		SessionID: sessionID,
	}
}

// SetWidth updates the header width
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// View renders the header
func (h *Header) View() string {
	t := theme.Current

	logoStyle := lipgloss.NewStyle().
		Foreground(t.Primary).
		Bold(true)

	logo := logoStyle.Render("◆ ReAct Chat")

	versionStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.BackgroundSecondary).
		Padding(0, 1).
		Render(fmt.Sprintf("v%s", h.Version))

	modelStyle := lipgloss.NewStyle().
		Foreground(t.Text).
		Bold(true)

	sessionStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted)

	session := h.SessionID
	if len(session) > 8 {
		session = session[:8]
	}

	leftPart := lipgloss.JoinHorizontal(
		lipgloss.Center,
		logo,
		"  ",
		versionStyle,
	)

	rightPart := lipgloss.JoinHorizontal(
		lipgloss.Center,
		lipgloss.NewStyle().Foreground(t.Success).Render("●"),
		" ",
		modelStyle.Render(h.Model),
		sessionStyle.Render(" · "+session),
	)

	spacing := h.Width - lipgloss.Width(leftPart) - lipgloss.Width(rightPart) - 2
	if spacing < 1 {
		spacing = 1
	}

	header := lipgloss.JoinHorizontal(
		lipgloss.Center,
		leftPart,
		lipgloss.NewStyle().Width(spacing).Render(""),
		rightPart,
	)

	separator := lipgloss.NewStyle().
		Foreground(t.Border).
		Width(h.Width).
		Render(strings.Repeat("─", max(h.Width, 0)))

	return header + "\n" + separator
}
