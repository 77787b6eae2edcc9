package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/simonyos/reactchat/internal/tui/theme"
)

// Command represents a slash command
type Command struct {
	Name        string
	Description string
}

// BuiltinCommands lists all slash commands
var BuiltinCommands = []Command{
	{Name: "/help", Description: "Show keyboard shortcuts and commands"},
	{Name: "/trace", Description: "Show or hide the thought process"},
	{Name: "/history", Description: "Show the conversation so far"},
	{Name: "/clear", Description: "Clear the screen"},
	{Name: "/reset", Description: "Forget the conversation"},
	{Name: "/tools", Description: "List available tools"},
	{Name: "/config", Description: "Show or set configuration"},
	{Name: "/quit", Description: "Exit"},
}

// Suggestions shows command autocomplete suggestions
type Suggestions struct {
	visible  bool
	commands []Command
	selected int
	width    int
}

// NewSuggestions creates a new suggestions component
func NewSuggestions() *Suggestions {
	return &Suggestions{commands: BuiltinCommands}
}

// SetWidth sets the component width
func (s *Suggestions) SetWidth(width int) {
	s.width = width
}

// Filter keeps the commands that start with input. Input that is not a
// slash command, or that already has arguments, hides the list.
func (s *Suggestions) Filter(input string) {
	if !strings.HasPrefix(input, "/") || strings.ContainsAny(input, " \n") {
		s.visible = false
		return
	}

	s.visible = true
	s.commands = s.commands[:0:0]
	for _, cmd := range BuiltinCommands {
		if strings.HasPrefix(cmd.Name, input) {
			s.commands = append(s.commands, cmd)
		}
	}

	if s.selected >= len(s.commands) {
		s.selected = 0
	}
}

// IsVisible returns whether suggestions are showing
func (s *Suggestions) IsVisible() bool {
	return s.visible && len(s.commands) > 0
}

// Hide hides the suggestions
func (s *Suggestions) Hide() {
	s.visible = false
}

// MoveUp moves selection up
func (s *Suggestions) MoveUp() {
	if s.selected > 0 {
		s.selected--
	}
}

// MoveDown moves selection down
func (s *Suggestions) MoveDown() {
	if s.selected < len(s.commands)-1 {
		s.selected++
	}
}

// GetSelected returns the currently selected command
func (s *Suggestions) GetSelected() string {
	if len(s.commands) > 0 && s.selected < len(s.commands) {
		return s.commands[s.selected].Name
	}
	return ""
}

// View renders the suggestions
func (s *Suggestions) View() string {
	if !s.IsVisible() {
		return ""
	}

	t := theme.Current

	var sb strings.Builder

	headerStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Italic(true)
	sb.WriteString(headerStyle.Render("Commands") + "\n")

	iconStyle := lipgloss.NewStyle().
		Foreground(t.Primary)
	nameStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true).
		Width(12)
	descStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted)

	for i, cmd := range s.commands {
		icon := "  "
		if i == s.selected {
			icon = "› "
		}

		row := iconStyle.Render(icon) + nameStyle.Render(cmd.Name) + descStyle.Render(cmd.Description)
		if i == s.selected {
			row = lipgloss.NewStyle().
				Background(t.BackgroundSecondary).
				Foreground(t.Text).
				Width(s.width - 6).
				Render(row)
		}
		sb.WriteString(row + "\n")
	}

	footerStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Italic(true)
	sb.WriteString(footerStyle.Render("↑↓ navigate • Tab to complete • Esc to cancel"))

	container := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Background(t.Background).
		Padding(0, 1).
		Width(s.width - 2)

	return container.Render(sb.String())
}
