// Package embeddings defines the vector-embedding abstraction consumed by
// ingestion and retrieval. Concrete providers live in subpackages.
package embeddings

import "context"

// EmbeddingProvider produces fixed-length vector representations for text.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
