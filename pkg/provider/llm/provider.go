// Package llm defines the Provider interface for Large Language Model backends.
//
// An LLM provider wraps a remote or local model API (e.g., OpenAI GPT-4o,
// Anthropic Claude, or an OpenAI-compatible gateway) and exposes a uniform
// interface for the Loreweave agents to send conversation turns and receive
// normalized replies without coupling to any specific SDK.
//
// Implementors must be safe for concurrent use.
package llm

import "context"

// Provider is the abstraction over any LLM backend.
//
// Implementations must be safe for concurrent use from multiple goroutines and
// should propagate context cancellation promptly: when ctx is cancelled,
// SendMessage must return as quickly as possible.
type Provider interface {
	// SendMessage sends the ordered conversation history plus an optional
	// system prompt to the model and waits for the full reply.
	//
	// systemPrompt is a high-priority instruction injected ahead of the
	// conversation. Vendors treat it differently: some accept it as a leading
	// "system"-role message, others require it in a dedicated out-of-band
	// request field. Adapters own that mapping; callers always pass the prompt
	// here and never embed it in messages.
	//
	// An empty systemPrompt means no system instruction is sent. Returns an
	// error if the request fails or if ctx is cancelled before the reply
	// arrives.
	SendMessage(ctx context.Context, messages []Message, systemPrompt string) (*Response, error)

	// ProviderName returns the stable vendor identifier, e.g. "openai" or
	// "anthropic". Used for logging and metric attribution.
	ProviderName() string

	// ModelName returns the concrete model identifier requests are issued
	// against, e.g. "gpt-4o" or "claude-sonnet-4-5".
	ModelName() string

	// SupportsImages reports whether the configured model accepts image
	// content parts. Callers should strip or reject image parts before
	// sending to a provider that returns false.
	SupportsImages() bool
}
