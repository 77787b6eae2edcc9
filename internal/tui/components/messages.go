package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/simonyos/reactchat/internal/tui/theme"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
	RoleSystem    = "system"
	RoleError     = "error"
)

// toolRunning is the content of a tool message whose result is pending.
const toolRunning = "Running..."

// maxToolOutput bounds how much of a tool result is shown inline.
const maxToolOutput = 300

// Message represents a chat message. Content and Trace of assistant and
// error messages are markdown.
type Message struct {
	Role     string
	Content  string
	Trace    string
	ToolName string
	ToolArgs string
}

// Messages is the scrollable message list component
type Messages struct {
	viewport  viewport.Model
	messages  []Message
	renderer  *glamour.TermRenderer
	width     int
	height    int
	welcome   []string
	showTrace bool
}

// NewMessages creates a new messages component
func NewMessages(width, height int) *Messages {
	return &Messages{
		viewport: viewport.New(width, height),
		renderer: newRenderer(width),
		width:    width,
		height:   height,
	}
}

// newRenderer uses the dark style explicitly to avoid terminal colour queries.
func newRenderer(width int) *glamour.TermRenderer {
	r, _ := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(max(width-10, 20)),
	)
	return r
}

// SetSize updates the component dimensions
func (m *Messages) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.renderer = newRenderer(width)
	m.updateContent()
}

// AddMessage adds a new message
func (m *Messages) AddMessage(msg Message) {
	m.messages = append(m.messages, msg)
	m.updateContent()
}

// Messages returns the messages shown.
func (m *Messages) Messages() []Message {
	return m.messages
}

// Clear removes all messages
func (m *Messages) Clear() {
	m.messages = nil
	m.updateContent()
}

// GetViewport returns the viewport for handling scroll input
func (m *Messages) GetViewport() *viewport.Model {
	return &m.viewport
}

// SetWelcome sets the capability lines shown while the chat is empty
func (m *Messages) SetWelcome(lines []string) {
	m.welcome = lines
	m.updateContent()
}

// SetShowTrace expands or collapses the thought process of every answer.
func (m *Messages) SetShowTrace(show bool) {
	m.showTrace = show
	m.updateContent()
}

// ShowTrace reports whether thought processes are expanded.
func (m *Messages) ShowTrace() bool {
	return m.showTrace
}

// UpdateLastToolResult sets the result of the last tool message
func (m *Messages) UpdateLastToolResult(result string) {
	for i := len(m.messages) - 1; i >= 0; i-- {
		if m.messages[i].Role == RoleTool {
			m.messages[i].Content = result
			break
		}
	}
	m.updateContent()
}

func (m *Messages) markdown(text string) string {
	if m.renderer == nil {
		return text
	}
	r, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimSpace(r)
}

// updateContent rebuilds the viewport content
func (m *Messages) updateContent() {
	if len(m.messages) == 0 && len(m.welcome) > 0 {
		m.viewport.SetContent(m.welcomeView())
		return
	}

	t := theme.Current
	contentWidth := m.width - 4
	var sb strings.Builder

	bodyStyle := lipgloss.NewStyle().
		Foreground(t.Text).
		PaddingLeft(2).
		Width(contentWidth)

	for _, msg := range m.messages {
		switch msg.Role {
		case RoleUser:
			iconStyle := lipgloss.NewStyle().
				Foreground(t.Info).
				Bold(true)
			headerStyle := lipgloss.NewStyle().
				Foreground(t.Text).
				Bold(true)
			sb.WriteString(iconStyle.Render("◉") + " " + headerStyle.Render("You") + "\n")
			sb.WriteString(bodyStyle.Render(msg.Content) + "\n\n")

		case RoleAssistant, RoleError:
			color := t.Primary
			icon := "◆"
			if msg.Role == RoleError {
				color = t.Error
				icon = "✗"
			}
			headerStyle := lipgloss.NewStyle().
				Foreground(color).
				Bold(true)
			sb.WriteString(headerStyle.Render(icon+" Agent") + "\n")
			sb.WriteString(bodyStyle.Render(m.markdown(msg.Content)) + "\n")

			if msg.Trace != "" {
				if m.showTrace {
					sb.WriteString(bodyStyle.Render(m.markdown(msg.Trace)) + "\n")
				} else {
					hintStyle := lipgloss.NewStyle().
						Foreground(t.TextMuted).
						Italic(true).
						PaddingLeft(2)
					sb.WriteString(hintStyle.Render("▸ thought process hidden (ctrl+t)") + "\n")
				}
			}
			sb.WriteString("\n")

		case RoleTool:
			sb.WriteString(m.toolView(msg, contentWidth))

		case RoleSystem:
			iconStyle := lipgloss.NewStyle().
				Foreground(t.Info)
			sysStyle := lipgloss.NewStyle().
				Foreground(t.TextMuted).
				Italic(true)
			sb.WriteString(iconStyle.Render("ℹ") + " " + sysStyle.Render(msg.Content) + "\n\n")
		}
	}

	m.viewport.SetContent(sb.String())
	m.viewport.GotoBottom()
}

func (m *Messages) toolView(msg Message, contentWidth int) string {
	t := theme.Current
	var sb strings.Builder

	isRunning := msg.Content == toolRunning
	isError := strings.HasPrefix(msg.Content, "Error")

	statusIcon, statusColor := "✓", t.Success
	switch {
	case isRunning:
		statusIcon, statusColor = "◐", t.Warning
	case isError:
		statusIcon, statusColor = "✗", t.Error
	}

	iconStyle := lipgloss.NewStyle().
		Foreground(statusColor).
		Bold(true)
	toolNameStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Bold(true)
	sb.WriteString("  " + iconStyle.Render(statusIcon) + " " + toolNameStyle.Render(msg.ToolName))

	if msg.ToolArgs != "" {
		argsStyle := lipgloss.NewStyle().
			Foreground(t.TextMuted)
		sb.WriteString(argsStyle.Render(" → " + firstLine(msg.ToolArgs)))
	}
	sb.WriteString("\n")

	if !isRunning && msg.Content != "" {
		result := msg.Content
		if len(result) > maxToolOutput {
			result = result[:maxToolOutput] + "\n⋯ (truncated)"
		}
		resultStyle := lipgloss.NewStyle().
			Foreground(t.TextMuted).
			PaddingLeft(4).
			Width(contentWidth - 6)
		sb.WriteString(resultStyle.Render(result) + "\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

func (m *Messages) welcomeView() string {
	t := theme.Current
	var sb strings.Builder

	titleStyle := lipgloss.NewStyle().
		Foreground(t.Primary).
		Bold(true)
	sb.WriteString("\n" + titleStyle.Render("   ◆ ReAct Chat") + "\n\n")

	taglineStyle := lipgloss.NewStyle().
		Foreground(t.Text).
		Bold(true)
	sb.WriteString(taglineStyle.Render("   An agent that reasons, picks a tool and shows its work") + "\n\n")

	sepStyle := lipgloss.NewStyle().
		Foreground(t.Border)
	sb.WriteString(sepStyle.Render("   "+strings.Repeat("─", 40)) + "\n\n")

	tipStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted)
	iconStyle := lipgloss.NewStyle().
		Foreground(t.Accent)
	for _, line := range m.welcome {
		sb.WriteString("   " + iconStyle.Render("•") + " " + tipStyle.Render(line) + "\n")
	}
	sb.WriteString("\n")

	cmdStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Italic(true)
	sb.WriteString(cmdStyle.Render("   Type /help for commands • Enter to send") + "\n")
	return sb.String()
}

// View renders the messages
func (m *Messages) View() string {
	return m.viewport.View()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ⋯"
	}
	return s
}
