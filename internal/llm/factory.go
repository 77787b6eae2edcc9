package llm

import (
	"fmt"
	"strings"
)

// Provider names accepted by New.
const (
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderAnthropic  = "anthropic"
)

// Names lists the supported provider names.
func Names() []string {
	return []string{ProviderOpenAI, ProviderOpenRouter, ProviderAnthropic}
}

// New creates a provider by name. An empty model selects the provider default.
func New(name, apiKey, model string) (Provider, error) {
	switch strings.ToLower(name) {
	case ProviderOpenAI:
		return NewOpenAI(apiKey, model, "")
	case ProviderOpenRouter:
		return NewOpenRouter(apiKey, model), nil
	case ProviderAnthropic:
		return NewAnthropic(apiKey, model), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: %s)", name, strings.Join(Names(), ", "))
	}
}
