// Package config provides the configuration schema and loader for the
// Loreweave assistant.
package config

// LogLevel controls log verbosity for the Loreweave server.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure for Loreweave.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server     ServerConfig   `yaml:"server"`
	Provider   ProviderEntry  `yaml:"provider"`
	Embeddings ProviderEntry  `yaml:"embeddings"`
	Campaign   CampaignConfig `yaml:"campaign"`
	Rules      RulesConfig    `yaml:"rules"`
	MCP        MCPConfig      `yaml:"mcp"`
}

// ServerConfig holds logging, telemetry and admin endpoint settings.
type ServerConfig struct {
	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	// ListenAddr is the TCP address of the admin HTTP server serving
	// /healthz, /readyz and /metrics (e.g. ":8080"). Empty disables it.
	ListenAddr string `yaml:"listen_addr"`

	// MetricsEnabled turns on the OpenTelemetry meter provider with its
	// Prometheus bridge.
	MetricsEnabled bool `yaml:"metrics_enabled"`
}

// ProviderEntry is the common configuration block shared by provider types.
type ProviderEntry struct {
	// Name selects the provider implementation (e.g. "openai", "claude",
	// "ollama"). When empty the selector falls back to its default.
	Name string `yaml:"name"`

	// APIKey is the authentication key for the provider's API. When empty,
	// the provider's conventional environment variable is consulted.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the provider's default API endpoint.
	// Leave empty to use the provider's built-in default.
	BaseURL string `yaml:"base_url"`

	// Model selects a specific model within the provider (e.g. "gpt-4o").
	Model string `yaml:"model"`

	// Options holds provider-specific configuration values not covered by
	// the standard fields above.
	Options map[string]any `yaml:"options"`
}

// CampaignConfig locates the active campaign's file store.
type CampaignConfig struct {
	// Dir is the campaign directory loaded by the file store.
	Dir string `yaml:"dir"`
}

// RulesConfig configures rule-excerpt retrieval.
type RulesConfig struct {
	// PostgresDSN is the connection string for the rule-chunk database.
	// When empty, the rules agent answers from its manifest-free instructions
	// and rule retrieval is disabled.
	PostgresDSN string `yaml:"postgres_dsn"`

	// EmbeddingDimensions is the vector dimension of the configured
	// embeddings model. Must match the ingested rule chunks.
	EmbeddingDimensions int `yaml:"embedding_dimensions"`

	// TopK is the number of excerpts retrieved per rule query. Zero uses the
	// default of 5.
	TopK int `yaml:"top_k"`
}

// MCPConfig configures the Model Context Protocol tool server.
type MCPConfig struct {
	// Enabled starts the stdio MCP server exposing campaign lookup tools.
	Enabled bool `yaml:"enabled"`
}
