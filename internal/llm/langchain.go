package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// DefaultOpenAIModel is used when no model is configured for the openai provider.
const DefaultOpenAIModel = "gpt-4o-mini"

// contentGenerator is the part of llms.Model LangChain calls.
type contentGenerator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// LangChain implements Provider on top of a langchaingo model.
type LangChain struct {
	model contentGenerator
	name  string
}

// NewLangChain wraps an existing langchaingo model.
func NewLangChain(model llms.Model, name string) *LangChain {
	return &LangChain{model: model, name: name}
}

// NewOpenAI creates an OpenAI backed provider. baseURL may be empty.
func NewOpenAI(apiKey, model, baseURL string) (*LangChain, error) {
	if model == "" {
		model = DefaultOpenAIModel
	}
	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(model),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	m, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client: %w", err)
	}
	return &LangChain{model: m, name: model}, nil
}

// Generate implements Provider.
func (l *LangChain) Generate(ctx context.Context, messages []Message, opts ...CallOption) (string, error) {
	if len(messages) == 0 {
		return "", ErrNoMessages
	}
	resp, err := l.model.GenerateContent(ctx, toLangChainMessages(messages), toLangChainOptions(ApplyOptions(opts...))...)
	if err != nil {
		return "", fmt.Errorf("openai generate: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Content, nil
}

// ModelName implements Provider.
func (l *LangChain) ModelName() string {
	return l.name
}

func toLangChainMessages(messages []Message) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		role := llms.ChatMessageTypeHuman
		switch m.Role {
		case RoleSystem:
			role = llms.ChatMessageTypeSystem
		case RoleAssistant:
			role = llms.ChatMessageTypeAI
		}
		out = append(out, llms.TextParts(role, m.Content))
	}
	return out
}

func toLangChainOptions(o CallOptions) []llms.CallOption {
	var opts []llms.CallOption
	if o.Temperature != nil {
		opts = append(opts, llms.WithTemperature(*o.Temperature))
	}
	if len(o.Stop) > 0 {
		opts = append(opts, llms.WithStopWords(o.Stop))
	}
	if o.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(o.MaxTokens))
	}
	return opts
}
