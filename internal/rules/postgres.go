package rules

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/MrWong99/loreweave/pkg/provider/embeddings"
)

// Chunk is one ingested rule-book passage with its embedding, as produced by
// the PDF ingestion pipeline.
type Chunk struct {
	// RuleSet names the rule set the chunk belongs to (e.g. "srd").
	RuleSet string

	// FileName is the source document.
	FileName string

	// Page is the 1-based source page.
	Page int

	// Content is the chunk text.
	Content string

	// Embedding is the pre-computed vector for Content.
	Embedding []float32
}

// ddlRuleChunks returns the rule_chunks DDL with the embedding dimension
// substituted. The vector dimension is baked into the column type at schema
// creation time.
func ddlRuleChunks(embeddingDimensions int) string {
	return fmt.Sprintf(`
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS rule_chunks (
    id         BIGSERIAL  PRIMARY KEY,
    rule_set   TEXT       NOT NULL,
    file_name  TEXT       NOT NULL,
    page       INT        NOT NULL,
    content    TEXT       NOT NULL,
    embedding  vector(%d)
);

CREATE INDEX IF NOT EXISTS idx_rule_chunks_rule_set
    ON rule_chunks (rule_set);

CREATE INDEX IF NOT EXISTS idx_rule_chunks_embedding
    ON rule_chunks USING hnsw (embedding vector_cosine_ops);
`, embeddingDimensions)
}

// Migrate creates or ensures the rule_chunks table and its indexes exist. It
// is idempotent and safe to call on every application start.
//
// embeddingDimensions must match the embeddings model configured for the
// deployment (e.g. 1536 for OpenAI text-embedding-3-small). Changing it after
// the first migration requires a manual schema update.
func Migrate(ctx context.Context, pool *pgxpool.Pool, embeddingDimensions int) error {
	if _, err := pool.Exec(ctx, ddlRuleChunks(embeddingDimensions)); err != nil {
		return fmt.Errorf("rules: migrate: %w", err)
	}
	return nil
}

// PostgresRetriever implements Retriever against a PostgreSQL rule_chunks
// table with a pgvector HNSW index for approximate nearest-neighbour search.
//
// All methods are safe for concurrent use.
type PostgresRetriever struct {
	pool     *pgxpool.Pool
	embedder embeddings.Provider
}

var _ Retriever = (*PostgresRetriever)(nil)

// NewPostgresRetriever builds a retriever over pool, embedding queries with
// embedder.
func NewPostgresRetriever(pool *pgxpool.Pool, embedder embeddings.Provider) (*PostgresRetriever, error) {
	if pool == nil {
		return nil, fmt.Errorf("rules: pool must not be nil")
	}
	if embedder == nil {
		return nil, fmt.Errorf("rules: embedder must not be nil")
	}
	return &PostgresRetriever{pool: pool, embedder: embedder}, nil
}

// IndexChunks inserts pre-embedded chunks into the rule_chunks table. Used by
// the ingestion path after PDF extraction.
func (r *PostgresRetriever) IndexChunks(ctx context.Context, chunks []Chunk) error {
	const q = `
		INSERT INTO rule_chunks (rule_set, file_name, page, content, embedding)
		VALUES ($1, $2, $3, $4, $5)`

	for _, c := range chunks {
		vec := pgvector.NewVector(c.Embedding)
		if _, err := r.pool.Exec(ctx, q, c.RuleSet, c.FileName, c.Page, c.Content, vec); err != nil {
			return fmt.Errorf("rules: index chunk from %s page %d: %w", c.FileName, c.Page, err)
		}
	}
	return nil
}

// Retrieve implements Retriever. It embeds the query and returns the topK
// chunks of the rule set closest by cosine distance, most similar first.
func (r *PostgresRetriever) Retrieve(ctx context.Context, ruleSet, query string, topK int) ([]Excerpt, error) {
	queryEmbedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("rules: embed query: %w", err)
	}
	queryVec := pgvector.NewVector(queryEmbedding)

	const q = `
		SELECT file_name, page, content,
		       embedding <=> $1 AS distance
		FROM   rule_chunks
		WHERE  rule_set = $2
		ORDER  BY distance
		LIMIT  $3`

	rows, err := r.pool.Query(ctx, q, queryVec, ruleSet, topK)
	if err != nil {
		return nil, fmt.Errorf("rules: search: %w", err)
	}

	excerpts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Excerpt, error) {
		var (
			e        Excerpt
			distance float64
		)
		if err := row.Scan(&e.FileName, &e.Page, &e.Text, &distance); err != nil {
			return Excerpt{}, err
		}
		return e, nil
	})
	if err != nil {
		return nil, fmt.Errorf("rules: scan rows: %w", err)
	}
	if excerpts == nil {
		excerpts = []Excerpt{}
	}
	return excerpts, nil
}

// Manifest implements Retriever.
func (r *PostgresRetriever) Manifest(ctx context.Context, ruleSet string) ([]string, error) {
	const q = `
		SELECT DISTINCT file_name
		FROM   rule_chunks
		WHERE  rule_set = $1
		ORDER  BY file_name`

	rows, err := r.pool.Query(ctx, q, ruleSet)
	if err != nil {
		return nil, fmt.Errorf("rules: manifest: %w", err)
	}

	files, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (string, error) {
		var name string
		err := row.Scan(&name)
		return name, err
	})
	if err != nil {
		return nil, fmt.Errorf("rules: scan manifest: %w", err)
	}
	return files, nil
}
