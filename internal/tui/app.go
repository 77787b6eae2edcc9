// Package tui is the interactive chat front end.
package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/simonyos/reactchat/internal/agent"
	"github.com/simonyos/reactchat/internal/config"
	"github.com/simonyos/reactchat/internal/session"
	"github.com/simonyos/reactchat/internal/tools"
	"github.com/simonyos/reactchat/internal/tui/components"
	"github.com/simonyos/reactchat/internal/tui/theme"
)

// Version is the application version shown in the header.
const Version = "0.1.0"

const (
	headerHeight = 2
	statusHeight = 2
	editorHeight = 5
)

// Welcome lists what the agent can do.
var Welcome = []string{
	"Solve math problems: \"What is 12 times 7?\"",
	"Look up facts: \"What is the capital of France?\"",
	"Generate code: \"Write a function that reverses a string\"",
}

// Message types for Bubble Tea
type turnStartedMsg struct {
	events <-chan tea.Msg
}

type thinkingMsg struct {
	iteration int
}

type toolStartMsg struct {
	name  string
	input string
}

type toolResultMsg struct {
	name   string
	result tools.ToolResult
}

type turnDoneMsg struct {
	turn *session.Turn
}

// progress forwards agent callbacks to the running program.
type progress struct {
	events chan<- tea.Msg
}

func (p progress) OnThinking(iteration int) { p.events <- thinkingMsg{iteration: iteration} }

func (p progress) OnToolUse(name, input string) {
	p.events <- toolStartMsg{name: name, input: input}
}

func (p progress) OnToolResult(name string, result tools.ToolResult) {
	p.events <- toolResultMsg{name: name, result: result}
}

// Model is the main TUI model
type Model struct {
	session *session.Session
	agent   *agent.Agent

	header      *components.Header
	messages    *components.Messages
	editor      *components.Editor
	status      *components.Status
	help        *components.HelpDialog
	suggestions *components.Suggestions
	spinner     spinner.Model

	width    int
	height   int
	ready    bool
	thinking bool
	showHelp bool
	events   <-chan tea.Msg
}

// New creates a new TUI model. ag receives progress callbacks while a turn
// runs; sess runs the turns.
func New(sess *session.Session, ag *agent.Agent) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	modelName := ag.ModelName()
	status := components.NewStatus(80)
	status.SetModel(modelName)

	return Model{
		session:     sess,
		agent:       ag,
		header:      components.NewHeader(80, Version, modelName, sess.ID()),
		status:      status,
		help:        components.NewHelpDialog(),
		suggestions: components.NewSuggestions(),
		spinner:     sp,
	}
}

// Init initializes the TUI
func (m Model) Init() tea.Cmd {
	return tea.EnterAltScreen
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "ctrl+h":
			m.showHelp = true
			return m, nil

		case "ctrl+l":
			if m.messages != nil {
				m.messages.Clear()
			}
			return m, nil

		case "ctrl+t":
			m.toggleTrace()
			return m, nil

		case "esc":
			m.suggestions.Hide()
			return m, nil

		case "tab":
			if m.suggestions.IsVisible() {
				if selected := m.suggestions.GetSelected(); selected != "" {
					m.editor.SetValue(selected)
					m.suggestions.Hide()
				}
				return m, nil
			}

		case "up":
			if m.suggestions.IsVisible() {
				m.suggestions.MoveUp()
				return m, nil
			}

		case "down":
			if m.suggestions.IsVisible() {
				m.suggestions.MoveDown()
				return m, nil
			}

		case "enter":
			if m.editor == nil {
				return m, nil
			}
			if m.suggestions.IsVisible() {
				if selected := m.suggestions.GetSelected(); selected != "" {
					m.editor.Reset()
					m.suggestions.Hide()
					return m.handleCommand(selected)
				}
			}

			input := m.editor.Value()
			if m.thinking || input == "" {
				return m, nil
			}
			m.editor.Reset()
			m.suggestions.Hide()

			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}

			m.messages.AddMessage(components.Message{Role: components.RoleUser, Content: input})
			m.thinking = true
			m.status.SetThinking(true)
			return m, tea.Batch(m.spinner.Tick, m.sendMessage(input))

		case "pgup", "pgdown":
			if m.messages != nil {
				vp := m.messages.GetViewport()
				var cmd tea.Cmd
				*vp, cmd = vp.Update(msg)
				return m, cmd
			}
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case spinner.TickMsg:
		if m.thinking {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case turnStartedMsg:
		m.events = msg.events
		cmds = append(cmds, readNextEvent(m.events))

	case thinkingMsg:
		if msg.iteration > 1 {
			m.status.SetMessage(fmt.Sprintf("(step %d)", msg.iteration))
		}
		cmds = append(cmds, readNextEvent(m.events))

	case toolStartMsg:
		m.status.SetMessage("using " + msg.name)
		if m.messages != nil {
			m.messages.AddMessage(components.Message{
				Role:     components.RoleTool,
				ToolName: msg.name,
				ToolArgs: msg.input,
				Content:  "Running...",
			})
		}
		cmds = append(cmds, readNextEvent(m.events))

	case toolResultMsg:
		if m.messages != nil {
			m.messages.UpdateLastToolResult(msg.result.Output)
		}
		cmds = append(cmds, readNextEvent(m.events))

	case turnDoneMsg:
		m.thinking = false
		m.events = nil
		m.status.SetThinking(false)
		m.showTurn(msg.turn)
	}

	if !m.thinking && m.editor != nil {
		if _, ok := msg.(tea.KeyMsg); ok {
			var cmd tea.Cmd
			m.editor, cmd = m.editor.Update(msg)
			cmds = append(cmds, cmd)
			m.suggestions.Filter(m.editor.Value())
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	messagesHeight := max(height-headerHeight-statusHeight-editorHeight, 1)

	if !m.ready {
		m.messages = components.NewMessages(width, messagesHeight)
		m.messages.SetWelcome(Welcome)
		m.editor = components.NewEditor(width, editorHeight)
		m.editor.Reset()
		m.ready = true
		for _, t := range m.session.History() {
			role := components.RoleUser
			if t.Role == session.RoleAssistant {
				role = components.RoleAssistant
			}
			m.messages.AddMessage(components.Message{Role: role, Content: t.Content})
		}
	} else {
		m.messages.SetSize(width, messagesHeight)
		m.editor.SetSize(width, editorHeight)
	}

	m.header.SetWidth(width)
	m.status.SetWidth(width)
}

func (m *Model) toggleTrace() {
	show := true
	if m.messages != nil {
		show = !m.messages.ShowTrace()
		m.messages.SetShowTrace(show)
	}
	m.status.SetShowTrace(show)
}

// sendMessage runs the turn in the background and streams its progress.
func (m Model) sendMessage(question string) tea.Cmd {
	events := make(chan tea.Msg, 16)
	m.agent.SetEventHandler(progress{events: events})
	sess := m.session
	return func() tea.Msg {
		go func() {
			defer close(events)
			events <- turnDoneMsg{turn: sess.Dispatch(context.Background(), question)}
		}()
		return turnStartedMsg{events: events}
	}
}

// readNextEvent reads the next event from the channel
func readNextEvent(events <-chan tea.Msg) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

func (m *Model) showTurn(turn *session.Turn) {
	if turn == nil || m.messages == nil {
		return
	}
	if errors.Is(turn.Err, session.ErrTurnInProgress) {
		m.system("Still working on the previous question.")
		return
	}

	role := components.RoleAssistant
	if turn.Err != nil {
		role = components.RoleError
	}
	trace := ""
	if turn.View.HasTrace() {
		trace = turn.View.TraceMarkdown()
	}
	m.messages.AddMessage(components.Message{
		Role:    role,
		Content: turn.View.AnswerMarkdown(),
		Trace:   trace,
	})
}

func (m *Model) system(text string) {
	if m.messages != nil {
		m.messages.AddMessage(components.Message{Role: components.RoleSystem, Content: text})
	}
}

func (m *Model) fail(text string) {
	if m.messages != nil {
		m.messages.AddMessage(components.Message{Role: components.RoleError, Content: text})
	}
}

// handleCommand processes slash commands
func (m Model) handleCommand(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	cmd := strings.ToLower(parts[0])

	switch cmd {
	case "/help":
		m.showHelp = true

	case "/clear":
		if m.messages != nil {
			m.messages.Clear()
		}

	case "/reset":
		if m.thinking {
			m.system("Wait for the current answer before resetting.")
			break
		}
		if m.messages != nil {
			m.messages.Clear()
		}
		m.session.Reset()
		m.system("Conversation reset.")

	case "/trace":
		m.toggleTrace()

	case "/history":
		history := m.session.History()
		if len(history) == 0 {
			m.system("No messages yet.")
			break
		}
		var sb strings.Builder
		for _, t := range history {
			fmt.Fprintf(&sb, "%s: %s\n", t.Role, t.Content)
		}
		m.system(strings.TrimSpace(sb.String()))

	case "/tools":
		var sb strings.Builder
		sb.WriteString("Available tools:\n")
		for _, def := range m.agent.Tools().List() {
			fmt.Fprintf(&sb, "  %s - %s\n", def.Name, def.Description)
		}
		m.system(strings.TrimSpace(sb.String()))

	case "/quit", "/exit", "/q":
		return m, tea.Quit

	case "/config":
		m.configCommand(parts[1:])

	default:
		m.fail("Unknown command: " + cmd + "\nType /help for available commands.")
	}
	return m, nil
}

func (m *Model) configCommand(args []string) {
	if len(args) == 0 {
		keys := config.ListKeys()
		names := make([]string, 0, len(keys))
		for k := range keys {
			names = append(names, k)
		}
		sort.Strings(names)

		var sb strings.Builder
		fmt.Fprintf(&sb, "Configuration (%s):\n", config.ConfigPath())
		if len(names) == 0 {
			sb.WriteString("  No keys configured.\n")
		}
		for _, k := range names {
			fmt.Fprintf(&sb, "  %s: %s\n", k, keys[k])
		}
		sb.WriteString("\nUsage: /config set <key> <value> | /config delete <key>\n")
		sb.WriteString("Keys: " + strings.Join(config.Keys(), ", "))
		m.system(sb.String())
		return
	}

	switch strings.ToLower(args[0]) {
	case "set":
		if len(args) < 3 {
			m.fail("Usage: /config set <key> <value>")
			return
		}
		if err := config.Set(args[1], strings.Join(args[2:], " ")); err != nil {
			m.fail(fmt.Sprintf("Failed to set config: %v", err))
			return
		}
		m.system(fmt.Sprintf("Set %s successfully. Restart to apply provider changes.", args[1]))

	case "delete", "remove", "unset":
		if len(args) < 2 {
			m.fail("Usage: /config delete <key>")
			return
		}
		if err := config.Delete(args[1]); err != nil {
			m.fail(fmt.Sprintf("Failed to delete config: %v", err))
			return
		}
		m.system(fmt.Sprintf("Deleted %s.", args[1]))

	default:
		m.fail("Unknown config subcommand: " + args[0] + "\nUse: set, delete")
	}
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	t := theme.Current
	messagesHeight := max(m.height-headerHeight-statusHeight-editorHeight, 1)

	messagesView := m.messages.View()
	if m.thinking {
		thinkingStyle := lipgloss.NewStyle().Foreground(t.Primary)
		messagesView += "\n" + thinkingStyle.Render(m.spinner.View()+" "+components.ThinkingText)
	}
	messagesView = lipgloss.NewStyle().
		Height(messagesHeight).
		Render(messagesView)

	sections := []string{m.header.View(), messagesView}
	if m.suggestions.IsVisible() {
		m.suggestions.SetWidth(m.width)
		sections = append(sections, m.suggestions.View())
	}
	sections = append(sections, m.editor.View(), m.status.View())

	view := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if m.showHelp {
		view = components.PlaceOverlay(m.help.View(), m.width, m.height)
	}

	return lipgloss.NewStyle().
		Background(t.Background).
		Width(m.width).
		Height(m.height).
		Render(view)
}
