package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonyos/reactchat/internal/config"
	"github.com/simonyos/reactchat/internal/facts"
)

var factsCmd = &cobra.Command{
	Use:   "facts",
	Short: "Inspect and manage the Search tool's fact table",
	Long: `Print the fact table the Search tool uses, as YAML.

The table comes from --facts (or facts_file), else from the Redis list at
redis_url, else from the built-in entries.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		entries, err := activeFacts(cmd.Context())
		if err != nil {
			fatal(err)
		}
		data, err := facts.EncodeYAML(entries)
		if err != nil {
			fatal(err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
	},
}

var factsLookupCmd = &cobra.Command{
	Use:   "lookup <query>",
	Short: "Run a Search query against the fact table",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		entries, err := activeFacts(cmd.Context())
		if err != nil {
			fatal(err)
		}
		table, err := facts.NewStatic(entries...)
		if err != nil {
			fatal(err)
		}
		fact, ok, _ := table.Lookup(cmd.Context(), args[0])
		if !ok {
			fact = facts.NoInformation
		}
		fmt.Fprintln(cmd.OutOrStdout(), fact)
	},
}

var factsPushCmd = &cobra.Command{
	Use:   "push <file.yaml>",
	Short: "Append the entries of a YAML fact table to the Redis list",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		table, err := facts.LoadYAML(args[0])
		if err != nil {
			fatal(err)
		}
		store, err := dialFacts(cmd.Context())
		if err != nil {
			fatal(err)
		}
		defer store.Close()

		entries := table.Entries()
		if err := store.Append(cmd.Context(), entries...); err != nil {
			fatal(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Pushed %d facts.\n", len(entries))
	},
}

// activeFacts returns the table buildApp would give the Search tool.
func activeFacts(ctx context.Context) ([]facts.Entry, error) {
	cfg := config.Get()
	if path := firstNonEmpty(factsFlag, cfg.FactsFile); path != "" {
		table, err := facts.LoadYAML(path)
		if err != nil {
			return nil, err
		}
		return table.Entries(), nil
	}
	if url, _ := config.Value("redis_url"); url != "" {
		store, err := dialFacts(ctx)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.Entries(ctx)
	}
	return facts.Default().Entries(), nil
}

func dialFacts(ctx context.Context) (*facts.Redis, error) {
	url, _ := config.Value("redis_url")
	if url == "" {
		return nil, fmt.Errorf("redis_url is not set: run `reactchat config set redis_url <url>` or set REDIS_URL")
	}
	return facts.DialRedis(ctx, url, config.Get().RedisKey)
}

func init() {
	factsCmd.AddCommand(factsLookupCmd)
	factsCmd.AddCommand(factsPushCmd)
	rootCmd.AddCommand(factsCmd)
}
