package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simonyos/reactchat/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage reactchat configuration",
	Long: `Manage reactchat configuration including API keys and defaults.

Examples:
  reactchat config                        # Show current config
  reactchat config set openai <key>       # Set OpenAI API key
  reactchat config set provider anthropic # Set default provider
  reactchat config set facts facts.yaml   # Use a fact table file
  reactchat config delete openai          # Remove OpenAI API key`,
	Run: func(cmd *cobra.Command, args []string) {
		showConfig()
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Available keys (aliases in parentheses):
  openai_api_key (openai)          - OpenAI API key
  anthropic_api_key (anthropic)    - Anthropic API key
  openrouter_api_key (openrouter)  - OpenRouter API key
  default_provider (provider)      - Default provider (openai, openrouter, anthropic)
  default_model (model)            - Default model for the agent
  code_model                       - Model for the CodeGenerator tool
  max_iterations                   - Loop iteration limit (default 15)
  facts_file (facts)               - YAML fact table for the Search tool
  redis_url (redis)                - Redis holding the fact table
  redis_key                        - Redis list key (default reactchat:facts)
  nats_url (nats)                  - NATS server for the turn feed`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]
		value := args[1]

		if err := config.Set(key, value); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("Set %s successfully.\n", key)
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]

		val, err := config.Display(key)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if val == "" {
			fmt.Printf("%s is not set\n", key)
			return
		}
		fmt.Printf("%s: %s\n", key, val)
	},
}

var configDeleteCmd = &cobra.Command{
	Use:     "delete <key>",
	Aliases: []string{"remove", "unset"},
	Short:   "Delete a configuration value",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]

		if err := config.Delete(key); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("Deleted %s.\n", key)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show config file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.ConfigPath())
	},
}

func showConfig() {
	fmt.Printf("Configuration file: %s\n\n", config.ConfigPath())

	keys := config.ListKeys()
	if len(keys) == 0 {
		fmt.Println("No configuration set.")
		fmt.Println("\nUse 'reactchat config set <key> <value>' to configure.")
		return
	}

	names := make([]string, 0, len(keys))
	for k := range keys {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Printf("  %s: %s\n", k, keys[k])
	}
	fmt.Printf("\nKeys: %s\n", strings.Join(config.Keys(), ", "))
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configDeleteCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}
