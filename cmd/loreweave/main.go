// Command loreweave is the main entry point for the Loreweave tabletop
// assistant server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MrWong99/loreweave/internal/agent"
	"github.com/MrWong99/loreweave/internal/campaign"
	"github.com/MrWong99/loreweave/internal/config"
	"github.com/MrWong99/loreweave/internal/console"
	"github.com/MrWong99/loreweave/internal/health"
	loremcp "github.com/MrWong99/loreweave/internal/mcp"
	"github.com/MrWong99/loreweave/internal/observe"
	"github.com/MrWong99/loreweave/internal/provider"
	"github.com/MrWong99/loreweave/internal/rules"
	oaembed "github.com/MrWong99/loreweave/pkg/provider/embeddings/openai"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	playerName := flag.String("player", "Player", "player name used for console turns")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "loreweave: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "loreweave: %v\n", err)
		}
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	slog.Info("loreweave starting",
		"version", version,
		"config", *configPath,
		"campaign_dir", cfg.Campaign.Dir,
		"log_level", cfg.Server.LogLevel,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	var metrics *observe.Metrics
	if cfg.Server.MetricsEnabled {
		shutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{
			ServiceVersion: version,
		})
		if err != nil {
			slog.Error("failed to initialise telemetry", "err", err)
			return 1
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Warn("telemetry shutdown error", "err", err)
			}
		}()
		metrics = observe.DefaultMetrics()
	}

	// ── Campaign store ────────────────────────────────────────────────────────
	store, err := campaign.NewFSStore(cfg.Campaign.Dir)
	if err != nil {
		slog.Error("failed to open campaign directory", "dir", cfg.Campaign.Dir, "err", err)
		return 1
	}
	camp, err := store.Load()
	if err != nil {
		slog.Error("failed to load campaign", "err", err)
		return 1
	}
	slog.Info("campaign loaded",
		"name", camp.Name,
		"system", camp.System,
		"state", camp.State,
		"characters", len(camp.Characters),
	)

	// ── Rule retrieval (optional) ─────────────────────────────────────────────
	var (
		retriever rules.Retriever
		pool      *pgxpool.Pool
	)
	if cfg.Rules.PostgresDSN != "" {
		pool, err = pgxpool.New(ctx, cfg.Rules.PostgresDSN)
		if err != nil {
			slog.Error("failed to connect to rules database", "err", err)
			return 1
		}
		defer pool.Close()

		if err := rules.Migrate(ctx, pool, cfg.Rules.EmbeddingDimensions); err != nil {
			slog.Error("failed to migrate rules schema", "err", err)
			return 1
		}

		embedder, err := oaembed.New(embeddingsAPIKey(cfg), cfg.Embeddings.Model)
		if err != nil {
			slog.Error("failed to create embeddings provider", "err", err)
			return 1
		}

		retriever, err = rules.NewPostgresRetriever(pool, embedder)
		if err != nil {
			slog.Error("failed to create rule retriever", "err", err)
			return 1
		}
		slog.Info("rule retrieval enabled", "rule_set", camp.RuleSet, "embeddings_model", embedder.ModelID())
	} else {
		slog.Info("no rules database configured — rule lookups disabled")
	}

	// ── LLM provider ──────────────────────────────────────────────────────────
	registry := provider.NewRegistry()
	provider.RegisterBuiltins(registry)

	selector, err := provider.NewSelector(registry, cfg.Provider, metrics)
	if err != nil {
		slog.Error("failed to configure LLM provider", "name", cfg.Provider.Name, "err", err)
		return 1
	}
	slog.Info("provider configured", "name", selector.ProviderName(), "model", cfg.Provider.Model)

	// ── Agents ────────────────────────────────────────────────────────────────
	directory := agent.NewDirectory(camp, retriever, cfg.Rules.TopK, agent.Deps{
		Sender:   selector,
		Source:   store,
		Journals: store,
		Metrics:  metrics,
		Log:      logger,
	})

	// ── Admin HTTP server (optional) ──────────────────────────────────────────
	if cfg.Server.ListenAddr != "" {
		go serveAdmin(ctx, cfg.Server.ListenAddr, store, pool)
	}

	// ── Front-end: MCP tool server or interactive console ─────────────────────
	if cfg.MCP.Enabled {
		mcpServer := loremcp.NewServer(camp, store, directory.Rule(), version)
		slog.Info("mcp server ready on stdio")
		if err := mcpServer.Run(ctx, &sdk.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("mcp server error", "err", err)
			return 1
		}
	} else {
		fmt.Printf("Welcome to %s — type a message for the game master, /rule for rules, /as <name> to address a character, /quit to leave.\n", camp.Name)
		c := console.New(directory, *playerName, os.Stdin, os.Stdout)
		if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("console error", "err", err)
			return 1
		}
	}

	slog.Info("goodbye")
	return 0
}

// serveAdmin runs the admin HTTP endpoints until ctx is cancelled.
func serveAdmin(ctx context.Context, addr string, store *campaign.FSStore, pool *pgxpool.Pool) {
	checkers := []health.Checker{
		{Name: "campaign", Check: func(_ context.Context) error {
			_, err := store.CampaignJournal()
			return err
		}},
	}
	if pool != nil {
		checkers = append(checkers, health.Checker{Name: "rules-db", Check: pool.Ping})
	}

	mux := http.NewServeMux()
	health.New(checkers...).Register(mux)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("admin server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("admin server error", "err", err)
	}
}

// embeddingsAPIKey resolves the embeddings key from config or the
// conventional environment variable.
func embeddingsAPIKey(cfg *config.Config) string {
	if cfg.Embeddings.APIKey != "" {
		return cfg.Embeddings.APIKey
	}
	return os.Getenv("OPENAI_API_KEY")
}

// ── Logger ─────────────────────────────────────────────────────────────────────

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
