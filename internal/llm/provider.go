// Package llm adapts chat completion backends to one small Provider
// interface used by the control loop and the CodeGenerator tool.
package llm

import (
	"context"
	"errors"
)

// Roles understood by every provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var (
	ErrEmptyResponse = errors.New("model returned no content")
	ErrNoMessages    = errors.New("no messages to send")
)

// Message represents a chat message
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// System returns a system message.
func System(content string) Message { return Message{Role: RoleSystem, Content: content} }

// User returns a user message.
func User(content string) Message { return Message{Role: RoleUser, Content: content} }

// Assistant returns an assistant message.
func Assistant(content string) Message { return Message{Role: RoleAssistant, Content: content} }

// CallOptions tune a single Generate call.
type CallOptions struct {
	Temperature *float64
	Stop        []string
	MaxTokens   int
}

// CallOption mutates CallOptions.
type CallOption func(*CallOptions)

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) CallOption {
	return func(o *CallOptions) { o.Temperature = &t }
}

// WithStop sets stop sequences.
func WithStop(stop ...string) CallOption {
	return func(o *CallOptions) { o.Stop = append(o.Stop, stop...) }
}

// WithMaxTokens caps the completion length.
func WithMaxTokens(n int) CallOption {
	return func(o *CallOptions) { o.MaxTokens = n }
}

// ApplyOptions folds opts into a CallOptions value.
func ApplyOptions(opts ...CallOption) CallOptions {
	var o CallOptions
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Provider is the interface for LLM backends
type Provider interface {
	// Generate produces a response given messages
	Generate(ctx context.Context, messages []Message, opts ...CallOption) (string, error)

	// ModelName identifies the model for display and logs
	ModelName() string
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, messages []Message, opts ...CallOption) (string, error)

// Generate implements Provider.
func (f ProviderFunc) Generate(ctx context.Context, messages []Message, opts ...CallOption) (string, error) {
	return f(ctx, messages, opts...)
}

// ModelName implements Provider.
func (f ProviderFunc) ModelName() string { return "func" }
