// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/semscan/storage"
)

// EmbeddingCache implements storage.EmbeddingCache for BadgerDB.
type EmbeddingCache struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.EmbeddingCache = (*EmbeddingCache)(nil)

// NewEmbeddingCache creates an embedding cache on top of a backend.
// The caller retains ownership of the backend; closing the cache closes it.
func NewEmbeddingCache(backend *Backend) (*EmbeddingCache, error) {
	return &EmbeddingCache{
		backend: backend,
		logger:  slog.Default().With("component", "embedding-cache"),
	}, nil
}

// GetVector retrieves the cached embedding for a statement text.
func (c *EmbeddingCache) GetVector(ctx context.Context, model, text string) ([]float32, error) {
	if c.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var vector []float32
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeEmbeddingKey(model, text))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			vector, unmarshalErr = storage.UnmarshalVector(val)
			return unmarshalErr
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return vector, nil
}

// PutVector stores the embedding for a statement text.
func (c *EmbeddingCache) PutVector(ctx context.Context, model, text string, vector []float32) error {
	if c.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return c.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeEmbeddingKey(model, text), storage.MarshalVector(vector)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Close closes the underlying backend.
func (c *EmbeddingCache) Close() error {
	c.logger.Debug("closing embedding cache")
	return c.backend.Close()
}
