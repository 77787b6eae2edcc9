package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/simonyos/reactchat/internal/config"
	"github.com/simonyos/reactchat/internal/llm"
	"github.com/simonyos/reactchat/internal/tui"
	"github.com/simonyos/reactchat/internal/tui/theme"
)

var (
	providerFlag string
	modelFlag    string
	factsFlag    string
	logFileFlag  string
	debugFlag    bool
	themeFlag    string
	profileFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "reactchat",
	Short: "Chat with a ReAct agent that shows its work",
	Long: `reactchat answers questions with a reason-and-act loop over three tools:
Calculator for arithmetic, Search for a small fact table and CodeGenerator
for code. Every answer comes with the agent's step-by-step thought process.

Supported providers:
  openai      - OpenAI API (default, requires OPENAI_API_KEY)
  openrouter  - OpenRouter API (requires OPENROUTER_API_KEY)
  anthropic   - Anthropic API (requires ANTHROPIC_API_KEY)`,
	Version:       tui.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.LoadEnv("."); err != nil {
			return err
		}
		return theme.Use(themeFlag)
	},
	Run: runChat,
}

func runChat(cmd *cobra.Command, args []string) {
	a, err := buildApp(cmd.Context(), appOptions{})
	if err != nil {
		fatal(err)
	}
	defer a.Close()

	p := tea.NewProgram(
		tui.New(a.session, a.agent),
		tea.WithAltScreen(),
		tea.WithoutBracketedPaste(),
	)
	if _, err := p.Run(); err != nil {
		fatal(fmt.Errorf("error running TUI: %w", err))
	}
}

// fatal prints err and exits with status 1.
func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if errors.Is(err, config.ErrMissingCredential) {
		fmt.Fprintf(os.Stderr, "Config file: %s\n", config.ConfigPath())
	}
	os.Exit(1)
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fatal(err)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&providerFlag, "provider", "p", "", fmt.Sprintf("LLM provider %v", llm.Names()))
	flags.StringVarP(&modelFlag, "model", "m", "", "Model to use (provider-specific)")
	flags.StringVar(&factsFlag, "facts", "", "YAML file with the Search tool's facts")
	flags.StringVar(&logFileFlag, "log-file", "", "Log file (default ~/.config/reactchat/reactchat.log)")
	flags.BoolVar(&debugFlag, "debug", false, "Log model output and tool calls at debug level")
	flags.StringVar(&themeFlag, "theme", "", fmt.Sprintf("Color theme %v", theme.Names()))
	flags.StringVar(&profileFlag, "profile", "", "Agent profile from ~/.config/reactchat/profiles or ./.reactchat/profiles")
}
