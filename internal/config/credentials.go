package config

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential means the selected provider has no API key in the
	// config file or the environment.
	ErrMissingCredential = errors.New("missing API credential")
	ErrUnknownProvider   = errors.New("unknown provider")
)

var providerKeys = map[string]string{
	"openai":     "openai_api_key",
	"anthropic":  "anthropic_api_key",
	"openrouter": "openrouter_api_key",
}

// Providers lists the provider names that accept a key.
func Providers() []string {
	return []string{"anthropic", "openai", "openrouter"}
}

// RequireAPIKey returns the key for provider or ErrMissingCredential. A
// config file that cannot be parsed is reported as such.
func RequireAPIKey(provider string) (string, error) {
	key, ok := providerKeys[provider]
	if !ok {
		return "", fmt.Errorf("%w: %q (available: %v)", ErrUnknownProvider, provider, Providers())
	}
	if _, err := Load(); err != nil {
		return "", fmt.Errorf("%w (%s)", err, configFile)
	}
	v, err := Value(key)
	if err != nil {
		return "", err
	}
	if v == "" {
		f := fields[key]
		return "", fmt.Errorf("%w: set %s or run `reactchat config set %s <key>`", ErrMissingCredential, f.env, key)
	}
	return v, nil
}
