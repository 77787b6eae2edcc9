package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/simonyos/reactchat/internal/config"
	"github.com/simonyos/reactchat/internal/profiles"
	"github.com/simonyos/reactchat/internal/tui/theme"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List agent profiles usable with --profile",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		paths := profiles.DefaultPaths(config.Dir())
		reg, err := profiles.NewLoader(paths, nil).Load()
		if err != nil {
			fatal(err)
		}
		printProfiles(cmd.OutOrStdout(), reg.List(), paths)
	},
}

func printProfiles(out io.Writer, list []*profiles.Profile, paths []string) {
	if len(list) == 0 {
		fmt.Fprintln(out, "No profiles found. Searched:")
		for _, p := range paths {
			fmt.Fprintf(out, "  %s\n", p)
		}
		return
	}
	name := lipgloss.NewStyle().Foreground(theme.Current.Accent).Bold(true)
	for _, p := range list {
		fmt.Fprintf(out, "  %s  %s\n", name.Render(p.Name), p.Description)
		fmt.Fprintf(out, "    %s\n", p.FilePath)
	}
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}
