package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/simonyos/reactchat/internal/facts"
	"github.com/simonyos/reactchat/internal/llm"
	"github.com/simonyos/reactchat/internal/tools"
	"github.com/simonyos/reactchat/internal/tui/theme"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools the agent can use",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		// Descriptions do not depend on the backends, so no credentials are
		// needed here.
		registry, err := tools.NewDefaultRegistry(facts.Default(), llm.ProviderFunc(nil), nil)
		if err != nil {
			fatal(err)
		}
		printTools(cmd.OutOrStdout(), registry.List())
	},
}

func printTools(out io.Writer, defs []tools.ToolDefinition) {
	name := lipgloss.NewStyle().Foreground(theme.Current.Accent).Bold(true)
	fmt.Fprintln(out, "Available tools:")
	for _, def := range defs {
		fmt.Fprintf(out, "  %s\n    %s\n", name.Render(def.Name), def.Description)
	}
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}
