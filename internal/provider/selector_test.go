package provider_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/MrWong99/loreweave/internal/config"
	"github.com/MrWong99/loreweave/internal/provider"
	"github.com/MrWong99/loreweave/pkg/provider/llm"
	"github.com/MrWong99/loreweave/pkg/provider/llm/anthropic"
	"github.com/MrWong99/loreweave/pkg/provider/llm/mock"
	"github.com/MrWong99/loreweave/pkg/provider/llm/openai"
)

// countingRegistry returns a registry whose "openai" and "claude" factories
// hand out the given mock and count constructions.
func countingRegistry(m *mock.Provider, constructions *atomic.Int32) *provider.Registry {
	r := provider.NewRegistry()
	factory := func(config.ProviderEntry) (llm.Provider, error) {
		constructions.Add(1)
		return m, nil
	}
	r.Register("openai", factory)
	r.Register("claude", factory)
	return r
}

func TestSelector_DefaultsToOpenAI(t *testing.T) {
	t.Parallel()

	var n atomic.Int32
	r := countingRegistry(&mock.Provider{}, &n)

	s, err := provider.NewSelector(r, config.ProviderEntry{APIKey: "sk-test"}, nil)
	if err != nil {
		t.Fatalf("NewSelector: %v", err)
	}
	if got := s.ProviderName(); got != "openai" {
		t.Errorf("ProviderName() = %q, want %q", got, "openai")
	}
}

func TestSelector_ConstructsExactlyOnce(t *testing.T) {
	t.Parallel()

	var n atomic.Int32
	m := &mock.Provider{Response: &llm.Response{Content: "ok"}}
	r := countingRegistry(m, &n)

	s, err := provider.NewSelector(r, config.ProviderEntry{Name: "claude", APIKey: "sk-test"}, nil)
	if err != nil {
		t.Fatalf("NewSelector: %v", err)
	}
	if got := n.Load(); got != 0 {
		t.Fatalf("adapter constructed eagerly: %d constructions", got)
	}

	msgs := []llm.Message{llm.TextMessage(llm.RoleUser, "hi")}
	for i := 0; i < 5; i++ {
		if _, err := s.Send(context.Background(), msgs, ""); err != nil {
			t.Fatalf("Send: %v", err)
		}
	}
	if got := n.Load(); got != 1 {
		t.Errorf("constructions = %d, want 1", got)
	}
}

func TestSelector_ConcurrentFirstUseConstructsOnce(t *testing.T) {
	t.Parallel()

	var n atomic.Int32
	r := countingRegistry(&mock.Provider{Response: &llm.Response{}}, &n)

	s, err := provider.NewSelector(r, config.ProviderEntry{Name: "openai", APIKey: "sk-test"}, nil)
	if err != nil {
		t.Fatalf("NewSelector: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Provider(); err != nil {
				t.Errorf("Provider: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := n.Load(); got != 1 {
		t.Errorf("constructions = %d, want 1", got)
	}
}

func TestSelector_UnknownProvider(t *testing.T) {
	t.Parallel()

	r := provider.NewRegistry()
	provider.RegisterBuiltins(r)

	_, err := provider.NewSelector(r, config.ProviderEntry{Name: "skynet"}, nil)
	if !errors.Is(err, provider.ErrProviderNotRegistered) {
		t.Fatalf("err = %v, want ErrProviderNotRegistered", err)
	}
}

func TestSelector_MissingCredentials(t *testing.T) {
	// No t.Parallel: the check reads the key environment variables.
	t.Setenv("ANTHROPIC_API_KEY", "")

	r := provider.NewRegistry()
	provider.RegisterBuiltins(r)

	_, err := provider.NewSelector(r, config.ProviderEntry{Name: "claude"}, nil)
	if !errors.Is(err, provider.ErrMissingCredentials) {
		t.Fatalf("err = %v, want ErrMissingCredentials", err)
	}
}

func TestSelector_APIKeyFromEnvironment(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-env")

	r := provider.NewRegistry()
	provider.RegisterBuiltins(r)

	s, err := provider.NewSelector(r, config.ProviderEntry{Name: "claude"}, nil)
	if err != nil {
		t.Fatalf("NewSelector: %v", err)
	}
	adapter, err := s.Provider()
	if err != nil {
		t.Fatalf("Provider: %v", err)
	}
	if _, ok := adapter.(*anthropic.Provider); !ok {
		t.Errorf("adapter type = %T, want *anthropic.Provider", adapter)
	}
}

func TestRegisterBuiltins_NameMapping(t *testing.T) {
	t.Parallel()

	r := provider.NewRegistry()
	provider.RegisterBuiltins(r)

	tests := []struct {
		entry    config.ProviderEntry
		wantType string
	}{
		{config.ProviderEntry{Name: "openai", APIKey: "sk"}, "openai"},
		{config.ProviderEntry{Name: "claude", APIKey: "sk"}, "anthropic"},
		{config.ProviderEntry{Name: "anthropic", APIKey: "sk"}, "anthropic"},
	}

	for _, tc := range tests {
		t.Run(tc.entry.Name, func(t *testing.T) {
			t.Parallel()

			adapter, err := r.Create(tc.entry)
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			switch tc.wantType {
			case "openai":
				if _, ok := adapter.(*openai.Provider); !ok {
					t.Errorf("adapter type = %T, want *openai.Provider", adapter)
				}
			case "anthropic":
				if _, ok := adapter.(*anthropic.Provider); !ok {
					t.Errorf("adapter type = %T, want *anthropic.Provider", adapter)
				}
			}
			if got := adapter.ProviderName(); got != tc.wantType {
				t.Errorf("ProviderName() = %q, want %q", got, tc.wantType)
			}
		})
	}
}
