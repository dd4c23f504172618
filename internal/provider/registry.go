// Package provider selects and lazily constructs the process-wide LLM
// provider adapter from configuration, and routes all send-message traffic
// through it.
package provider

import (
	"errors"
	"fmt"
	"os"
	"sync"

	anyllmlib "github.com/mozilla-ai/any-llm-go"

	"github.com/MrWong99/loreweave/internal/config"
	"github.com/MrWong99/loreweave/pkg/provider/llm"
	"github.com/MrWong99/loreweave/pkg/provider/llm/anthropic"
	"github.com/MrWong99/loreweave/pkg/provider/llm/anyllm"
	"github.com/MrWong99/loreweave/pkg/provider/llm/openai"
)

// ErrProviderNotRegistered is returned when no factory has been registered
// under the requested provider name.
var ErrProviderNotRegistered = errors.New("provider: not registered")

// ErrMissingCredentials is returned when a provider requires an API key and
// neither the configuration nor the conventional environment variable
// supplies one.
var ErrMissingCredentials = errors.New("provider: missing credentials")

// Factory constructs an adapter from its configuration entry.
type Factory func(config.ProviderEntry) (llm.Provider, error)

// Registry maps provider names to their adapter factories.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty, ready-to-use [Registry].
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register registers an adapter factory under name.
// Subsequent calls with the same name overwrite the previous registration.
func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Create instantiates an adapter using the factory registered under
// entry.Name. Returns [ErrProviderNotRegistered] if no factory has been
// registered for that name.
func (r *Registry) Create(entry config.ProviderEntry) (llm.Provider, error) {
	r.mu.RLock()
	factory, ok := r.factories[entry.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrProviderNotRegistered, entry.Name)
	}
	return factory(entry)
}

// Registered reports whether a factory exists under name.
func (r *Registry) Registered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// keyEnvVars maps provider names to the environment variable consulted when
// the config omits an API key. Providers absent from this map (local
// backends) need no credentials.
var keyEnvVars = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"claude":    "ANTHROPIC_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"gemini":    "GEMINI_API_KEY",
	"deepseek":  "DEEPSEEK_API_KEY",
	"mistral":   "MISTRAL_API_KEY",
	"groq":      "GROQ_API_KEY",
}

// resolveAPIKey returns the API key for entry, falling back to the provider's
// conventional environment variable. Returns [ErrMissingCredentials] when the
// provider requires a key and none is available.
func resolveAPIKey(entry config.ProviderEntry) (string, error) {
	if entry.APIKey != "" {
		return entry.APIKey, nil
	}
	envVar, needsKey := keyEnvVars[entry.Name]
	if !needsKey {
		return "", nil
	}
	if key := os.Getenv(envVar); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("%w: %q needs an API key (set provider.api_key or %s)", ErrMissingCredentials, entry.Name, envVar)
}

// RegisterBuiltins registers the factories for every provider Loreweave ships
// with: the native OpenAI and Anthropic adapters, plus any-llm-go backends
// for the rest.
func RegisterBuiltins(r *Registry) {
	r.Register("openai", func(entry config.ProviderEntry) (llm.Provider, error) {
		key, err := resolveAPIKey(entry)
		if err != nil {
			return nil, err
		}
		model := entry.Model
		if model == "" {
			model = "gpt-4o"
		}
		var opts []openai.Option
		if entry.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(entry.BaseURL))
		}
		return openai.New(key, model, opts...)
	})

	anthropicFactory := func(entry config.ProviderEntry) (llm.Provider, error) {
		key, err := resolveAPIKey(entry)
		if err != nil {
			return nil, err
		}
		model := entry.Model
		if model == "" {
			model = "claude-sonnet-4-5"
		}
		var opts []anthropic.Option
		if entry.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(entry.BaseURL))
		}
		return anthropic.New(key, model, opts...)
	}
	// "claude" is the user-facing alias for the Anthropic adapter.
	r.Register("claude", anthropicFactory)
	r.Register("anthropic", anthropicFactory)

	for _, name := range []string{"gemini", "ollama", "deepseek", "mistral", "groq", "llamacpp", "llamafile"} {
		name := name
		r.Register(name, func(entry config.ProviderEntry) (llm.Provider, error) {
			key, err := resolveAPIKey(entry)
			if err != nil {
				return nil, err
			}
			var opts []anyllmlib.Option
			if key != "" {
				opts = append(opts, anyllmlib.WithAPIKey(key))
			}
			if entry.BaseURL != "" {
				opts = append(opts, anyllmlib.WithBaseURL(entry.BaseURL))
			}
			return anyllm.New(name, entry.Model, opts...)
		})
	}
}
