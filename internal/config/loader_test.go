package config_test

import (
	"strings"
	"testing"

	"github.com/MrWong99/loreweave/internal/config"
)

func TestLoadFromReader_Valid(t *testing.T) {
	t.Parallel()

	yaml := `
server:
  log_level: debug
  metrics_enabled: true
provider:
  name: claude
  model: claude-sonnet-4-5
  api_key: sk-ant-test
embeddings:
  name: openai
  model: text-embedding-3-small
campaign:
  dir: ./campaigns/fens
rules:
  postgres_dsn: postgres://localhost/loreweave
  embedding_dimensions: 1536
  top_k: 3
mcp:
  enabled: true
`
	cfg, err := config.LoadFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}

	if cfg.Provider.Name != "claude" {
		t.Errorf("Provider.Name = %q", cfg.Provider.Name)
	}
	if cfg.Provider.Model != "claude-sonnet-4-5" {
		t.Errorf("Provider.Model = %q", cfg.Provider.Model)
	}
	if cfg.Campaign.Dir != "./campaigns/fens" {
		t.Errorf("Campaign.Dir = %q", cfg.Campaign.Dir)
	}
	if cfg.Rules.TopK != 3 {
		t.Errorf("Rules.TopK = %d", cfg.Rules.TopK)
	}
	if !cfg.MCP.Enabled {
		t.Error("MCP.Enabled = false")
	}
}

func TestLoadFromReader_UnknownField(t *testing.T) {
	t.Parallel()

	yaml := `
campaign:
  dir: ./c
bogus_key: true
`
	if _, err := config.LoadFromReader(strings.NewReader(yaml)); err == nil {
		t.Fatal("unknown top-level keys must be rejected")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{
			name:   "valid minimal",
			mutate: func(c *config.Config) {},
		},
		{
			name:    "missing campaign dir",
			mutate:  func(c *config.Config) { c.Campaign.Dir = "" },
			wantErr: true,
		},
		{
			name:    "bad log level",
			mutate:  func(c *config.Config) { c.Server.LogLevel = "verbose" },
			wantErr: true,
		},
		{
			name:    "negative top_k",
			mutate:  func(c *config.Config) { c.Rules.TopK = -1 },
			wantErr: true,
		},
		{
			name: "dsn without dimensions",
			mutate: func(c *config.Config) {
				c.Rules.PostgresDSN = "postgres://localhost/x"
				c.Rules.EmbeddingDimensions = 0
			},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := &config.Config{}
			cfg.Campaign.Dir = "./campaigns/fens"
			tc.mutate(cfg)

			err := config.Validate(cfg)
			if tc.wantErr && err == nil {
				t.Error("expected validation error, got none")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
