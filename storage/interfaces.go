package storage

import "context"

// EmbeddingCache persists embedding vectors keyed by model and statement
// content. Implementations must be thread-safe and support concurrent
// access.
type EmbeddingCache interface {
	// GetVector retrieves the cached embedding for a statement text under
	// the given model. Returns ErrNotFound when no entry exists.
	GetVector(ctx context.Context, model, text string) ([]float32, error)

	// PutVector stores the embedding for a statement text under the given
	// model, overwriting any previous entry.
	PutVector(ctx context.Context, model, text string, vector []float32) error

	// Close closes the storage backend and releases resources.
	Close() error
}
