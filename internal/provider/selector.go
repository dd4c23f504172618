package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrWong99/loreweave/internal/config"
	"github.com/MrWong99/loreweave/internal/observe"
	"github.com/MrWong99/loreweave/pkg/provider/llm"
)

// DefaultProvider is used when the configuration leaves the provider name
// unset.
const DefaultProvider = "openai"

// Selector picks exactly one adapter for the lifetime of the process based on
// the configured provider name, constructs it lazily on first use, and reuses
// the same instance for every subsequent call. There is no hot-swap: changing
// providers means restarting the process.
//
// Safe for concurrent use; concurrent first sends construct the adapter
// exactly once.
type Selector struct {
	registry *Registry
	entry    config.ProviderEntry
	metrics  *observe.Metrics

	once    sync.Once
	adapter llm.Provider
	initErr error
}

// NewSelector builds a Selector over registry for the configured entry.
// An empty entry.Name selects [DefaultProvider]. The adapter itself is not
// constructed until the first call that needs it.
//
// metrics may be nil to disable instrumentation (tests).
func NewSelector(registry *Registry, entry config.ProviderEntry, metrics *observe.Metrics) (*Selector, error) {
	if registry == nil {
		return nil, fmt.Errorf("provider: registry must not be nil")
	}
	if entry.Name == "" {
		entry.Name = DefaultProvider
	}
	if !registry.Registered(entry.Name) {
		return nil, fmt.Errorf("%w: %q", ErrProviderNotRegistered, entry.Name)
	}
	// Credentials are checked up front so a missing key fails at startup,
	// not on the first player message.
	if _, err := resolveAPIKey(entry); err != nil {
		return nil, err
	}
	return &Selector{registry: registry, entry: entry, metrics: metrics}, nil
}

// Provider returns the active adapter, constructing it on first call.
func (s *Selector) Provider() (llm.Provider, error) {
	s.once.Do(func() {
		s.adapter, s.initErr = s.registry.Create(s.entry)
	})
	return s.adapter, s.initErr
}

// ProviderName returns the configured provider name.
func (s *Selector) ProviderName() string {
	return s.entry.Name
}

// Send routes one conversation plus system prompt through the active adapter.
// Transport and vendor errors propagate unchanged; no retry, no fallback.
func (s *Selector) Send(ctx context.Context, messages []llm.Message, systemPrompt string) (*llm.Response, error) {
	adapter, err := s.Provider()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := adapter.SendMessage(ctx, messages, systemPrompt)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordProviderError(ctx, adapter.ProviderName())
		}
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordLLMCall(ctx, adapter.ProviderName(), adapter.ModelName(),
			time.Since(start).Seconds(), resp.Usage.InputTokens, resp.Usage.OutputTokens)
	}
	return resp, nil
}
