// Package rules provides rule-book excerpt retrieval for the rules agent.
//
// Rule sets are ingested elsewhere (PDF chunking scripts) into a store of
// per-page text chunks; this package retrieves the chunks most relevant to a
// player's question and formats them for prompt injection. The excerpt line
// format is a contract shared with the prompt templates and must not change
// shape across retrieval backends.
package rules

import (
	"context"
	"fmt"
	"strings"
)

// Excerpt is one retrieved rule-book passage with its provenance.
type Excerpt struct {
	// FileName is the source document, e.g. "srd.pdf".
	FileName string

	// Page is the 1-based page number the passage was extracted from.
	Page int

	// Text is the passage itself.
	Text string
}

// Retriever finds rule-book passages relevant to a query.
//
// Implementations must be safe for concurrent use.
type Retriever interface {
	// Retrieve returns the topK excerpts from the named rule set most
	// relevant to query, most relevant first.
	Retrieve(ctx context.Context, ruleSet, query string, topK int) ([]Excerpt, error)

	// Manifest returns the distinct source file names of the named rule set
	// in alphabetical order.
	Manifest(ctx context.Context, ruleSet string) ([]string, error)
}

// FormatExcerpts renders excerpts as newline-joined context lines, each in the
// form "[Page <n> from <fileName>]: <excerpt>".
func FormatExcerpts(excerpts []Excerpt) string {
	lines := make([]string, len(excerpts))
	for i, e := range excerpts {
		lines[i] = fmt.Sprintf("[Page %d from %s]: %s", e.Page, e.FileName, e.Text)
	}
	return strings.Join(lines, "\n")
}

// FormatManifest renders source file names as a bulleted list, one
// "- <fileName>" line per file.
func FormatManifest(files []string) string {
	lines := make([]string, len(files))
	for i, f := range files {
		lines[i] = "- " + f
	}
	return strings.Join(lines, "\n")
}
