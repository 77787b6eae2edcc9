package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// DefaultMaxIterations bounds one control loop run when the config is silent.
const DefaultMaxIterations = 15

// Config holds all application configuration
type Config struct {
	// API Keys
	OpenAIKey     string `json:"openai_api_key,omitempty"`
	AnthropicKey  string `json:"anthropic_api_key,omitempty"`
	OpenRouterKey string `json:"openrouter_api_key,omitempty"`

	// Defaults
	DefaultProvider string `json:"default_provider,omitempty"`
	DefaultModel    string `json:"default_model,omitempty"`
	CodeModel       string `json:"code_model,omitempty"`
	MaxIterations   int    `json:"max_iterations,omitempty"`

	// Backends
	FactsFile string `json:"facts_file,omitempty"`
	RedisURL  string `json:"redis_url,omitempty"`
	RedisKey  string `json:"redis_key,omitempty"`
	NATSURL   string `json:"nats_url,omitempty"`
}

var (
	configDir  string
	configFile string
	current    *Config
)

func init() {
	// Use ~/.config/reactchat for config
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	configDir = filepath.Join(home, ".config", "reactchat")
	configFile = filepath.Join(configDir, "config.json")
}

func defaults() *Config {
	return &Config{
		DefaultProvider: "openai",
		MaxIterations:   DefaultMaxIterations,
	}
}

// Load reads the config from disk
func Load() (*Config, error) {
	if current != nil {
		return current, nil
	}

	cfg := defaults()

	data, err := os.ReadFile(configFile)
	if err != nil {
		if os.IsNotExist(err) {
			current = cfg
			return current, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}

	current = cfg
	return current, nil
}

// Save writes the config to disk
func Save(cfg *Config) error {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	current = cfg
	return nil
}

// Get returns the current config, loading if necessary. A config file that
// cannot be read yields the defaults without caching them, so Load keeps
// reporting the error.
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return defaults()
	}
	return cfg
}

// field describes one settable config key.
type field struct {
	aliases []string
	secret  bool
	env     string
	get     func(*Config) string
	set     func(*Config, string) error
}

func stringField(ptr func(*Config) *string) (func(*Config) string, func(*Config, string) error) {
	return func(c *Config) string { return *ptr(c) },
		func(c *Config, v string) error { *ptr(c) = v; return nil }
}

func newField(aliases []string, secret bool, env string, ptr func(*Config) *string) field {
	get, set := stringField(ptr)
	return field{aliases: aliases, secret: secret, env: env, get: get, set: set}
}

var fields = map[string]field{
	"openai_api_key":     newField([]string{"openai"}, true, "OPENAI_API_KEY", func(c *Config) *string { return &c.OpenAIKey }),
	"anthropic_api_key":  newField([]string{"anthropic"}, true, "ANTHROPIC_API_KEY", func(c *Config) *string { return &c.AnthropicKey }),
	"openrouter_api_key": newField([]string{"openrouter"}, true, "OPENROUTER_API_KEY", func(c *Config) *string { return &c.OpenRouterKey }),
	"default_provider":   newField([]string{"provider"}, false, "", func(c *Config) *string { return &c.DefaultProvider }),
	"default_model":      newField([]string{"model"}, false, "", func(c *Config) *string { return &c.DefaultModel }),
	"code_model":         newField(nil, false, "", func(c *Config) *string { return &c.CodeModel }),
	"facts_file":         newField([]string{"facts"}, false, "", func(c *Config) *string { return &c.FactsFile }),
	"redis_url":          newField([]string{"redis"}, false, "REDIS_URL", func(c *Config) *string { return &c.RedisURL }),
	"redis_key":          newField(nil, false, "", func(c *Config) *string { return &c.RedisKey }),
	"nats_url":           newField([]string{"nats"}, false, "NATS_URL", func(c *Config) *string { return &c.NATSURL }),
	"max_iterations": {
		get: func(c *Config) string {
			if c.MaxIterations == 0 {
				return ""
			}
			return strconv.Itoa(c.MaxIterations)
		},
		set: func(c *Config, v string) error {
			if v == "" {
				c.MaxIterations = 0
				return nil
			}
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return fmt.Errorf("max_iterations must be a positive integer, got %q", v)
			}
			c.MaxIterations = n
			return nil
		},
	},
}

func lookupField(key string) (string, field, error) {
	if f, ok := fields[key]; ok {
		return key, f, nil
	}
	for name, f := range fields {
		for _, a := range f.aliases {
			if a == key {
				return name, f, nil
			}
		}
	}
	return "", field{}, fmt.Errorf("unknown config key: %s", key)
}

// Keys returns every config key in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set updates a config value by key
func Set(key, value string) error {
	_, f, err := lookupField(key)
	if err != nil {
		return err
	}
	cfg, err := Load()
	if err != nil {
		return err
	}
	if err := f.set(cfg, value); err != nil {
		return err
	}
	return Save(cfg)
}

// Delete removes a config value
func Delete(key string) error {
	_, f, err := lookupField(key)
	if err != nil {
		return err
	}
	cfg, err := Load()
	if err != nil {
		return err
	}
	if err := f.set(cfg, ""); err != nil {
		return err
	}
	return Save(cfg)
}

// Value returns the effective value of key, falling back to its environment
// variable when the file leaves it empty.
func Value(key string) (string, error) {
	_, f, err := lookupField(key)
	if err != nil {
		return "", err
	}
	if v := f.get(Get()); v != "" {
		return v, nil
	}
	if f.env != "" {
		return os.Getenv(f.env), nil
	}
	return "", nil
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return configFile
}

// Dir returns the directory holding the config file.
func Dir() string {
	return configDir
}

// ListKeys returns configured keys (secrets masked for display)
func ListKeys() map[string]string {
	cfg := Get()
	result := make(map[string]string)

	for name, f := range fields {
		v, fromEnv := f.get(cfg), false
		if v == "" && f.env != "" {
			v, fromEnv = os.Getenv(f.env), true
		}
		if v == "" {
			continue
		}
		if f.secret {
			v = maskKey(v)
		}
		if fromEnv {
			v += " (env)"
		}
		result[name] = v
	}

	return result
}

// Display returns the effective value of key as ListKeys shows it. An unset
// key yields "".
func Display(key string) (string, error) {
	name, _, err := lookupField(key)
	if err != nil {
		return "", err
	}
	return ListKeys()[name], nil
}

// maskKey shows only first 4 and last 4 characters
func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
