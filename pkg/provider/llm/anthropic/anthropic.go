// Package anthropic provides an LLM provider backed by the Anthropic API.
//
// Anthropic does not accept "system"-role messages in the conversation; the
// system prompt travels in a dedicated request field. The adapter therefore
// extracts any system-role messages from the history and joins them with the
// caller-supplied system prompt into that out-of-band channel.
package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	ant "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/MrWong99/loreweave/pkg/provider/llm"
)

// defaultMaxTokens is used when the caller does not configure a cap. Anthropic
// requires max_tokens on every request.
const defaultMaxTokens = 4096

// Provider implements llm.Provider using the Anthropic API.
type Provider struct {
	client    ant.Client
	model     string
	maxTokens int
}

var _ llm.Provider = (*Provider)(nil)

// config holds optional configuration for the provider.
type config struct {
	baseURL   string
	timeout   time.Duration
	maxTokens int
}

// Option is a functional option for Provider.
type Option func(*config)

// WithBaseURL overrides the default Anthropic API base URL.
func WithBaseURL(url string) Option {
	return func(c *config) {
		c.baseURL = url
	}
}

// WithTimeout sets a per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithMaxTokens caps completion tokens per request.
func WithMaxTokens(n int) Option {
	return func(c *config) {
		c.maxTokens = n
	}
}

// New constructs a new Anthropic LLM Provider.
func New(apiKey string, model string, opts ...Option) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic: apiKey must not be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("anthropic: model must not be empty")
	}

	cfg := &config{maxTokens: defaultMaxTokens}
	for _, o := range opts {
		o(cfg)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	if cfg.timeout > 0 {
		reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{
			Timeout: cfg.timeout,
		}))
	}

	client := ant.NewClient(reqOpts...)
	return &Provider{client: client, model: model, maxTokens: cfg.maxTokens}, nil
}

// SendMessage implements llm.Provider.
func (p *Provider) SendMessage(ctx context.Context, messages []llm.Message, systemPrompt string) (*llm.Response, error) {
	params, err := p.buildParams(messages, systemPrompt)
	if err != nil {
		return nil, fmt.Errorf("anthropic: build params: %w", err)
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic: create message: %w", err)
	}

	return &llm.Response{
		Content: firstText(resp),
		Usage: llm.Usage{
			InputTokens:  int(resp.Usage.InputTokens),
			OutputTokens: int(resp.Usage.OutputTokens),
		},
	}, nil
}

// ProviderName implements llm.Provider.
func (p *Provider) ProviderName() string {
	return "anthropic"
}

// ModelName implements llm.Provider.
func (p *Provider) ModelName() string {
	return p.model
}

// SupportsImages implements llm.Provider.
func (p *Provider) SupportsImages() bool {
	// Every Claude 3+ model accepts images.
	return true
}

// firstText returns the text of the first text content block of the reply.
func firstText(resp *ant.Message) string {
	for _, block := range resp.Content {
		if block.Type == "text" {
			return block.Text
		}
	}
	return ""
}

// buildParams converts the conversation into Anthropic SDK params, routing
// system content into the dedicated system field.
func (p *Provider) buildParams(messages []llm.Message, systemPrompt string) (ant.MessageNewParams, error) {
	systemParts := make([]string, 0, 1)
	if systemPrompt != "" {
		systemParts = append(systemParts, systemPrompt)
	}

	converted := make([]ant.MessageParam, 0, len(messages))
	for _, m := range messages {
		if m.Role == llm.RoleSystem {
			systemParts = append(systemParts, m.Text())
			continue
		}
		msg, err := convertMessage(m)
		if err != nil {
			return ant.MessageNewParams{}, err
		}
		converted = append(converted, msg)
	}

	params := ant.MessageNewParams{
		Model:     ant.Model(p.model),
		MaxTokens: int64(p.maxTokens),
		Messages:  converted,
	}
	if len(systemParts) > 0 {
		params.System = []ant.TextBlockParam{
			{Text: strings.Join(systemParts, "\n\n")},
		}
	}
	return params, nil
}

// convertMessage converts a non-system llm.Message to an Anthropic SDK message.
func convertMessage(m llm.Message) (ant.MessageParam, error) {
	blocks, err := convertContent(m)
	if err != nil {
		return ant.MessageParam{}, err
	}

	switch m.Role {
	case llm.RoleUser:
		return ant.NewUserMessage(blocks...), nil
	case llm.RoleAssistant:
		return ant.NewAssistantMessage(blocks...), nil
	default:
		return ant.MessageParam{}, fmt.Errorf("anthropic: unknown message role %q", m.Role)
	}
}

// convertContent builds the content block list for one message. Anthropic
// takes images as split media-type + base64 payload, so data URIs are parsed
// here rather than passed through.
func convertContent(m llm.Message) ([]ant.ContentBlockParamUnion, error) {
	if len(m.Parts) == 0 {
		return []ant.ContentBlockParamUnion{ant.NewTextBlock(m.Content)}, nil
	}

	blocks := make([]ant.ContentBlockParamUnion, 0, len(m.Parts))
	for _, p := range m.Parts {
		switch p.Kind {
		case llm.PartText:
			blocks = append(blocks, ant.NewTextBlock(p.Text))
		case llm.PartImage:
			mediaType, payload, err := llm.ParseDataURI(p.ImageURL)
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, ant.NewImageBlockBase64(mediaType, payload))
		default:
			return nil, fmt.Errorf("anthropic: unknown content part kind %q", p.Kind)
		}
	}
	return blocks, nil
}
