// Package mock provides a test double for the embeddings.Provider interface.
package mock

import (
	"context"
	"sync"

	"github.com/MrWong99/loreweave/pkg/provider/embeddings"
)

// Provider is a mock implementation of embeddings.Provider.
// Vectors returns a fixed vector for every input; set Err to inject errors.
type Provider struct {
	mu sync.Mutex

	// Vector is returned by Embed for every input, and repeated per element
	// by EmbedBatch.
	Vector []float32

	// Err, if non-nil, is returned from Embed and EmbedBatch.
	Err error

	// Dim is returned by Dimensions. Defaults to len(Vector) when zero.
	Dim int

	// EmbedCalls records every text passed to Embed, in order.
	EmbedCalls []string
}

// Embed records the call and returns Vector, Err.
func (p *Provider) Embed(_ context.Context, text string) ([]float32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.EmbedCalls = append(p.EmbedCalls, text)
	if p.Err != nil {
		return nil, p.Err
	}
	return append([]float32(nil), p.Vector...), nil
}

// EmbedBatch returns one copy of Vector per input text.
func (p *Provider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := p.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// Dimensions returns Dim, or len(Vector) when Dim is zero.
func (p *Provider) Dimensions() int {
	if p.Dim > 0 {
		return p.Dim
	}
	return len(p.Vector)
}

// ModelID returns a fixed identifier.
func (p *Provider) ModelID() string {
	return "mock-embedding"
}

var _ embeddings.Provider = (*Provider)(nil)
