package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/simonyos/reactchat/internal/tui/theme"
)

// HelpDialog shows available keyboard shortcuts
type HelpDialog struct {
	Width int
}

// NewHelpDialog creates a help dialog
func NewHelpDialog() *HelpDialog {
	return &HelpDialog{Width: 54}
}

var shortcuts = []struct {
	key  string
	desc string
}{
	{"enter", "Send question"},
	{"ctrl+t", "Show/hide thought process"},
	{"ctrl+l", "Clear chat"},
	{"ctrl+c", "Quit"},
	{"esc", "Cancel/Close"},
	{"page up/down", "Scroll messages"},
	{"", ""},
}

// View renders the help dialog
func (h *HelpDialog) View() string {
	t := theme.Current

	title := lipgloss.NewStyle().
		Foreground(t.Primary).
		Bold(true).
		Render("Keyboard Shortcuts")

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true).
		Width(15)
	descStyle := lipgloss.NewStyle().
		Foreground(t.Text)

	var content strings.Builder
	for _, s := range shortcuts {
		if s.key == "" {
			content.WriteString("\n")
			continue
		}
		content.WriteString(keyStyle.Render(s.key) + descStyle.Render(s.desc) + "\n")
	}
	for _, c := range BuiltinCommands {
		content.WriteString(keyStyle.Render(c.Name) + descStyle.Render(c.Description) + "\n")
	}

	footer := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Render("\nPress any key to close")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2).
		Width(h.Width)

	return box.Render(title + "\n\n" + content.String() + footer)
}

// PlaceOverlay centers the dialog on a background of the given size.
func PlaceOverlay(overlay string, bgWidth, bgHeight int) string {
	return lipgloss.Place(
		bgWidth,
		bgHeight,
		lipgloss.Center,
		lipgloss.Center,
		overlay,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(theme.Current.Background),
	)
}
