package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// ValidProviderNames lists known provider names per provider kind.
// Used by [Validate] to warn about unrecognised provider names.
var ValidProviderNames = map[string][]string{
	"llm":        {"openai", "claude", "anthropic", "ollama", "gemini", "deepseek", "mistral", "groq", "llamacpp", "llamafile"},
	"embeddings": {"openai"},
}

// Load reads the YAML configuration file at path and returns a validated [Config].
// It is a convenience wrapper around [LoadFromReader] and [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}

	validateProviderName("llm", cfg.Provider.Name)
	validateProviderName("embeddings", cfg.Embeddings.Name)

	if cfg.Campaign.Dir == "" {
		errs = append(errs, errors.New("campaign.dir must be set"))
	}

	if cfg.Rules.TopK < 0 {
		errs = append(errs, fmt.Errorf("rules.top_k must not be negative, got %d", cfg.Rules.TopK))
	}
	if cfg.Rules.PostgresDSN != "" && cfg.Rules.EmbeddingDimensions <= 0 {
		errs = append(errs, errors.New("rules.embedding_dimensions must be set when rules.postgres_dsn is configured"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// validateProviderName emits a warning for provider names not in
// [ValidProviderNames]. Unknown names are not fatal so that custom
// OpenAI-compatible gateways keep working.
func validateProviderName(kind, name string) {
	if name == "" {
		return
	}
	valid := ValidProviderNames[kind]
	if !slices.Contains(valid, name) {
		slog.Warn("unrecognised provider name; continuing anyway",
			"kind", kind, "name", name, "known", valid)
	}
}
