// Package mock provides a test double for the rules.Retriever interface.
package mock

import (
	"context"
	"sync"

	"github.com/MrWong99/loreweave/internal/rules"
)

// RetrieveCall records a single invocation of Retrieve.
type RetrieveCall struct {
	RuleSet string
	Query   string
	TopK    int
}

// Retriever is a mock implementation of rules.Retriever.
type Retriever struct {
	mu sync.Mutex

	// Excerpts is returned by Retrieve.
	Excerpts []rules.Excerpt

	// RetrieveErr, if non-nil, is returned from Retrieve.
	RetrieveErr error

	// Files is returned by Manifest.
	Files []string

	// ManifestErr, if non-nil, is returned from Manifest.
	ManifestErr error

	// RetrieveCalls records every invocation of Retrieve in order.
	RetrieveCalls []RetrieveCall

	// ManifestCalls records the rule set of every Manifest invocation.
	ManifestCalls []string
}

// Retrieve records the call and returns Excerpts, RetrieveErr.
func (r *Retriever) Retrieve(_ context.Context, ruleSet, query string, topK int) ([]rules.Excerpt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.RetrieveCalls = append(r.RetrieveCalls, RetrieveCall{RuleSet: ruleSet, Query: query, TopK: topK})
	if r.RetrieveErr != nil {
		return nil, r.RetrieveErr
	}
	return append([]rules.Excerpt(nil), r.Excerpts...), nil
}

// Manifest records the call and returns Files, ManifestErr.
func (r *Retriever) Manifest(_ context.Context, ruleSet string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ManifestCalls = append(r.ManifestCalls, ruleSet)
	if r.ManifestErr != nil {
		return nil, r.ManifestErr
	}
	return append([]string(nil), r.Files...), nil
}

var _ rules.Retriever = (*Retriever)(nil)
