package llm

import (
	"context"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	// DefaultAnthropicModel is used when no model is configured for anthropic.
	DefaultAnthropicModel = "claude-sonnet-4-20250514"
	defaultMaxTokens      = 4096
)

// MessagesClient is the subset of the Anthropic SDK client Anthropic uses.
// It is satisfied by *sdk.MessageService.
type MessagesClient interface {
	New(ctx context.Context, body sdk.MessageNewParams, opts ...option.RequestOption) (*sdk.Message, error)
}

// Anthropic implements Provider using Claude API
type Anthropic struct {
	msg   MessagesClient
	Model string
}

// NewAnthropic creates a new Anthropic provider with explicit API key
func NewAnthropic(apiKey, model string) *Anthropic {
	client := sdk.NewClient(option.WithAPIKey(apiKey))
	return NewAnthropicWithClient(&client.Messages, model)
}

// NewAnthropicWithClient builds a provider over an existing messages client.
func NewAnthropicWithClient(msg MessagesClient, model string) *Anthropic {
	if model == "" {
		model = DefaultAnthropicModel
	}
	return &Anthropic{msg: msg, Model: model}
}

// Generate sends a request to the Claude API
func (a *Anthropic) Generate(ctx context.Context, messages []Message, opts ...CallOption) (string, error) {
	params, err := a.params(messages, ApplyOptions(opts...))
	if err != nil {
		return "", err
	}
	msg, err := a.msg.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic messages.new: %w", err)
	}
	if msg == nil {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}

// params converts messages to Anthropic format: system messages move to the
// system field and consecutive same-role messages are merged.
func (a *Anthropic) params(messages []Message, co CallOptions) (sdk.MessageNewParams, error) {
	var system []sdk.TextBlockParam
	var conversation []sdk.MessageParam
	var lastRole string

	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, sdk.TextBlockParam{Text: m.Content})
			continue
		case RoleUser, RoleAssistant:
		default:
			return sdk.MessageNewParams{}, fmt.Errorf("anthropic: unsupported message role %q", m.Role)
		}

		block := sdk.NewTextBlock(m.Content)
		if m.Role == lastRole && len(conversation) > 0 {
			last := &conversation[len(conversation)-1]
			last.Content = append(last.Content, block)
			continue
		}
		if m.Role == RoleUser {
			conversation = append(conversation, sdk.NewUserMessage(block))
		} else {
			conversation = append(conversation, sdk.NewAssistantMessage(block))
		}
		lastRole = m.Role
	}
	if len(conversation) == 0 {
		return sdk.MessageNewParams{}, ErrNoMessages
	}

	maxTokens := co.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	params := sdk.MessageNewParams{
		MaxTokens: int64(maxTokens),
		Messages:  conversation,
		Model:     sdk.Model(a.Model),
	}
	if len(system) > 0 {
		params.System = system
	}
	if co.Temperature != nil {
		params.Temperature = sdk.Float(*co.Temperature)
	}
	if len(co.Stop) > 0 {
		params.StopSequences = co.Stop
	}
	return params, nil
}

// ModelName returns the model name
func (a *Anthropic) ModelName() string {
	return a.Model
}
