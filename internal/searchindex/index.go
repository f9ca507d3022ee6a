// Package searchindex provides vector search and index maintenance for
// content embeddings.
package searchindex

import (
	"context"

	"github.com/brainvault/brainvault/internal/model"
)

// Index is a thin adapter over the managed similarity index. Every call is a
// network round trip; there is no local caching. Upsert and Query propagate
// provider errors to the caller since they affect the dual-write invariant;
// DeleteByID is tolerant of missing ids.
type Index interface {
	// Upsert inserts or replaces one record keyed by the content id.
	Upsert(ctx context.Context, id string, vec []float32, payload map[string]interface{}) error
	// Query returns up to topK nearest records restricted to the given
	// owner. Records of other users are never returned.
	Query(ctx context.Context, userID string, vec []float32, topK int) ([]model.SearchHit, error)
	// DeleteByID removes one record; a missing id is not an error.
	DeleteByID(ctx context.Context, id string) error
}

// HealthPinger is optionally implemented by an Index to expose a specialized
// health check. Returns nil when healthy.
type HealthPinger interface {
	HealthPing(ctx context.Context) error
}
