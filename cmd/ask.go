package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	askStepsFlag   bool
	askRawFlag     bool
	askPlainFlag   bool
	askVerboseFlag bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question...>",
	Short: "Ask a single question and print the answer",
	Long: `Ask a single question and print the answer.

Examples:
  reactchat ask "What is 12 times 7?"
  reactchat ask --steps What is the capital of France
  reactchat ask --raw "Write a function that reverses a string"`,
	Args: cobra.MinimumNArgs(1),
	Run:  runAsk,
}

func runAsk(cmd *cobra.Command, args []string) {
	opts := appOptions{}
	if askVerboseFlag {
		opts.tee = os.Stderr
	}
	a, err := buildApp(cmd.Context(), opts)
	if err != nil {
		fatal(err)
	}
	defer a.Close()

	turn := a.session.Dispatch(cmd.Context(), strings.Join(args, " "))

	p := newTurnPrinter(cmd.OutOrStdout())
	p.steps = askStepsFlag
	p.raw = askRawFlag
	p.plain = askPlainFlag
	p.Print(turn)

	if turn.Err != nil {
		a.Close()
		os.Exit(1)
	}
}

func init() {
	askCmd.Flags().BoolVarP(&askStepsFlag, "steps", "s", false, "Show the agent's step-by-step thought process")
	askCmd.Flags().BoolVar(&askRawFlag, "raw", false, "Show the raw transcript instead of parsed steps")
	askCmd.Flags().BoolVar(&askPlainFlag, "plain", false, "Print markdown without terminal formatting")
	askCmd.Flags().BoolVarP(&askVerboseFlag, "verbose", "v", false, "Stream the transcript to stderr while the agent works")
	rootCmd.AddCommand(askCmd)
}
