package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/simonyos/reactchat/internal/broadcast"
	"github.com/simonyos/reactchat/internal/config"
	"github.com/simonyos/reactchat/internal/tui/theme"
)

var watchSessionFlag string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow chat turns published over NATS",
	Long: `Subscribe to the turn feed and print every finished turn.

Turns are published by chat sessions when nats_url (or NATS_URL) is set.
Use --session to follow a single session.`,
	Args: cobra.NoArgs,
	Run:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) {
	url, _ := config.Value("nats_url")

	logger, err := newLogger()
	if err != nil {
		fatal(err)
	}
	defer logger.Sync()

	client, err := broadcast.Dial(broadcast.DefaultConfig(url), logger)
	if err != nil {
		fatal(err)
	}
	defer client.Close()

	subject := broadcast.SubjectAll
	if watchSessionFlag != "" {
		subject = broadcast.Subject(watchSessionFlag)
	}

	records, err := client.Subscribe(cmd.Context(), subject)
	if err != nil {
		fatal(err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n\n", subject)
	for rec := range records {
		printRecord(out, rec)
	}
}

func printRecord(out io.Writer, rec *broadcast.TurnRecord) {
	t := theme.Current
	head := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	dim := lipgloss.NewStyle().Foreground(t.TextMuted)
	fail := lipgloss.NewStyle().Foreground(t.Error)

	session := rec.SessionID
	if len(session) > 8 {
		session = session[:8]
	}
	fmt.Fprintf(out, "%s %s\n",
		head.Render("["+session+"]"),
		dim.Render(fmt.Sprintf("%s · %d steps · %d tool calls · %s",
			rec.StartedAt.Local().Format(time.TimeOnly),
			len(rec.Steps),
			rec.ToolCalls,
			(time.Duration(rec.DurationMS)*time.Millisecond).String())))
	fmt.Fprintf(out, "Q: %s\n", rec.Question)
	if rec.Failed() {
		fmt.Fprintln(out, fail.Render("A: "+rec.Answer))
	} else {
		fmt.Fprintf(out, "A: %s\n", rec.Answer)
	}
	fmt.Fprintln(out)
}

func init() {
	watchCmd.Flags().StringVar(&watchSessionFlag, "session", "", "Only show turns of this session id")
	rootCmd.AddCommand(watchCmd)
}
