package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/simonyos/reactchat/internal/render"
	"github.com/simonyos/reactchat/internal/session"
	"github.com/simonyos/reactchat/internal/tui/theme"
)

// markdownWidth is the word wrap for rendered answers outside the TUI.
const markdownWidth = 100

// renderMarkdown formats md for the terminal, falling back to the source
// when glamour cannot render it.
func renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(markdownWidth),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

// turnPrinter writes finished turns to a line-oriented terminal.
type turnPrinter struct {
	out       io.Writer
	steps     bool
	raw       bool
	plain     bool
	errStyle  lipgloss.Style
	dimStyle  lipgloss.Style
	nameStyle lipgloss.Style
}

func newTurnPrinter(out io.Writer) *turnPrinter {
	t := theme.Current
	return &turnPrinter{
		out:       out,
		errStyle:  lipgloss.NewStyle().Foreground(t.Error).Bold(true),
		dimStyle:  lipgloss.NewStyle().Foreground(t.TextMuted).Italic(true),
		nameStyle: lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
	}
}

// Print writes the answer, then the thought process when enabled.
func (p *turnPrinter) Print(turn *session.Turn) {
	if turn.Err != nil && turn.States == nil {
		fmt.Fprintln(p.out, p.errStyle.Render("Error: "+turn.Err.Error()))
		return
	}

	md := turn.View.Markdown(p.steps && !p.raw)
	if p.plain {
		fmt.Fprint(p.out, md)
	} else {
		if turn.Err != nil {
			fmt.Fprintln(p.out, p.errStyle.Render("✗ Agent"))
		} else {
			fmt.Fprintln(p.out, p.nameStyle.Render("◆ Agent"))
		}
		fmt.Fprint(p.out, renderMarkdown(md))
	}

	if p.raw && turn.Transcript != "" {
		fmt.Fprintln(p.out)
		fmt.Fprintln(p.out, p.dimStyle.Render(render.RawTitle))
		fmt.Fprintln(p.out, strings.TrimRight(turn.Transcript, "\n"))
	}
}
