package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/simonyos/reactchat/internal/config"
	"github.com/simonyos/reactchat/internal/tui"
	"github.com/simonyos/reactchat/internal/tui/theme"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Line-oriented chat without the full-screen interface",
	Long: `Chat in a plain terminal session with line editing and history.

Commands:
  /trace    show or hide the thought process after each answer
  /raw      show or hide the raw transcript
  /history  print the conversation so far
  /tools    list the tools
  /reset    forget the conversation
  /quit     exit`,
	Args: cobra.NoArgs,
	RunE: runREPL,
}

func runREPL(cmd *cobra.Command, args []string) error {
	a, err := buildApp(cmd.Context(), appOptions{})
	if err != nil {
		fatal(err)
	}
	defer a.Close()

	t := theme.Current
	promptStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	dim := lipgloss.NewStyle().Foreground(t.TextMuted).Italic(true)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          promptStyle.Render("You: "),
		HistoryFile:     filepath.Join(config.Dir(), "history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "/quit",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	out := rl.Stdout()
	p := newTurnPrinter(out)

	fmt.Fprintln(out, lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Render("◆ ReAct Chat "+tui.Version))
	for _, line := range tui.Welcome {
		fmt.Fprintln(out, dim.Render("  • "+line))
	}
	fmt.Fprintln(out, dim.Render("  Type /quit to exit."))
	fmt.Fprintln(out)

	for {
		input, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if input == "" {
					return nil
				}
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if quit := replCommand(out, a, p, input); quit {
				return nil
			}
			continue
		}

		select {
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		default:
		}

		fmt.Fprintln(out, dim.Render("Agent thinking..."))
		turn := a.session.Dispatch(cmd.Context(), input)
		p.Print(turn)
		fmt.Fprintln(out)
	}
}

// replCommand runs a slash command and reports whether the REPL should end.
func replCommand(out io.Writer, a *app, p *turnPrinter, input string) bool {
	switch strings.ToLower(strings.Fields(input)[0]) {
	case "/quit", "/exit", "/q":
		return true
	case "/trace":
		p.steps = !p.steps
		fmt.Fprintf(out, "Thought process %s.\n", onOff(p.steps))
	case "/raw":
		p.raw = !p.raw
		fmt.Fprintf(out, "Raw transcript %s.\n", onOff(p.raw))
	case "/history":
		history := a.session.History()
		if len(history) == 0 {
			fmt.Fprintln(out, "No messages yet.")
		}
		for _, t := range history {
			fmt.Fprintf(out, "%s: %s\n", t.Role, t.Content)
		}
	case "/tools":
		printTools(out, a.registry.List())
	case "/reset":
		a.session.Reset()
		fmt.Fprintln(out, "Conversation reset.")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", input)
	}
	return false
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
