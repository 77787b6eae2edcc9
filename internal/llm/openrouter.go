package llm

import (
	"context"
	"fmt"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
)

const (
	// OpenRouterBaseURL is the OpenAI-compatible OpenRouter endpoint.
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"
	// DefaultOpenRouterModel is used when no model is configured for openrouter.
	DefaultOpenRouterModel = "openai/gpt-4o-mini"
)

// chatCompleter is the part of the go-openai client OpenRouter calls.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error)
}

// OpenRouter implements Provider using OpenRouter API
type OpenRouter struct {
	client  chatCompleter
	Model   string
	Timeout time.Duration
}

// NewOpenRouter creates a new OpenRouter provider with explicit API key
func NewOpenRouter(apiKey, model string) *OpenRouter {
	if model == "" {
		model = DefaultOpenRouterModel
	}
	cfg := goopenai.DefaultConfig(apiKey)
	cfg.BaseURL = OpenRouterBaseURL
	return &OpenRouter{
		client:  goopenai.NewClientWithConfig(cfg),
		Model:   model,
		Timeout: 2 * time.Minute,
	}
}

// Generate calls OpenRouter API and returns the response
func (o *OpenRouter) Generate(ctx context.Context, messages []Message, opts ...CallOption) (string, error) {
	if len(messages) == 0 {
		return "", ErrNoMessages
	}
	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}

	co := ApplyOptions(opts...)
	req := goopenai.ChatCompletionRequest{
		Model:     o.Model,
		Messages:  make([]goopenai.ChatCompletionMessage, 0, len(messages)),
		Stop:      co.Stop,
		MaxTokens: co.MaxTokens,
	}
	if co.Temperature != nil {
		req.Temperature = float32(*co.Temperature)
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, goopenai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openrouter chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// ModelName returns the model name
func (o *OpenRouter) ModelName() string {
	return o.Model
}
