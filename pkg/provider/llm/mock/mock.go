// Package mock provides a test double for the llm.Provider interface.
//
// Use Provider in unit tests to verify that agents compose correct
// conversations and system prompts, and to feed controlled responses without a
// live LLM backend. All fields are safe to set before calling any method;
// mutating them during a concurrent call is the caller's responsibility.
//
// Example:
//
//	p := &mock.Provider{
//	    Response: &llm.Response{Content: "Greetings, traveler."},
//	}
//	resp, err := p.SendMessage(ctx, msgs, "You are the narrator.")
package mock

import (
	"context"
	"sync"

	"github.com/MrWong99/loreweave/pkg/provider/llm"
)

// SendCall records a single invocation of SendMessage.
type SendCall struct {
	// Ctx is the context passed to SendMessage.
	Ctx context.Context
	// Messages is the conversation passed to SendMessage.
	Messages []llm.Message
	// SystemPrompt is the system prompt passed to SendMessage.
	SystemPrompt string
}

// Provider is a mock implementation of llm.Provider.
// Zero values for response fields cause SendMessage to return nil, nil.
// Set Err to inject errors.
type Provider struct {
	mu sync.Mutex

	// --- Configurable responses ---

	// Response is returned by SendMessage. May be nil (returns nil, nil).
	Response *llm.Response

	// Err, if non-nil, is returned as the error from SendMessage.
	Err error

	// Name is returned by ProviderName. Defaults to "mock" when empty.
	Name string

	// Model is returned by ModelName. Defaults to "mock-model" when empty.
	Model string

	// Images is returned by SupportsImages.
	Images bool

	// --- Call records (read after test) ---

	// SendCalls records every invocation of SendMessage in order.
	SendCalls []SendCall
}

// SendMessage records the call and returns Response, Err.
func (p *Provider) SendMessage(ctx context.Context, messages []llm.Message, systemPrompt string) (*llm.Response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	msgs := make([]llm.Message, len(messages))
	copy(msgs, messages)
	p.SendCalls = append(p.SendCalls, SendCall{Ctx: ctx, Messages: msgs, SystemPrompt: systemPrompt})
	return p.Response, p.Err
}

// ProviderName returns Name, or "mock" when unset.
func (p *Provider) ProviderName() string {
	if p.Name == "" {
		return "mock"
	}
	return p.Name
}

// ModelName returns Model, or "mock-model" when unset.
func (p *Provider) ModelName() string {
	if p.Model == "" {
		return "mock-model"
	}
	return p.Model
}

// SupportsImages returns Images.
func (p *Provider) SupportsImages() bool {
	return p.Images
}

// Calls returns a copy of all recorded SendMessage invocations. Thread-safe.
func (p *Provider) Calls() []SendCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	calls := make([]SendCall, len(p.SendCalls))
	copy(calls, p.SendCalls)
	return calls
}

// Reset clears all recorded calls. Thread-safe.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.SendCalls = nil
}

// Ensure Provider implements llm.Provider at compile time.
var _ llm.Provider = (*Provider)(nil)
