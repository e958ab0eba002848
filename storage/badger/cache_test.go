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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/semscan/storage"
)

func TestEmbeddingCache(t *testing.T) {
	ctx := context.Background()

	cache, err := NewMemoryCache()
	require.NoError(t, err)
	defer cache.Close()

	t.Run("miss returns not found", func(t *testing.T) {
		_, err := cache.GetVector(ctx, "embeddinggemma", "never cached")
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("round trip", func(t *testing.T) {
		vector := []float32{0.1, -0.5, 2.25}
		require.NoError(t, cache.PutVector(ctx, "embeddinggemma", "replica lag stays low", vector))

		got, err := cache.GetVector(ctx, "embeddinggemma", "replica lag stays low")
		require.NoError(t, err)
		assert.Equal(t, vector, got)
	})

	t.Run("keys are model scoped", func(t *testing.T) {
		require.NoError(t, cache.PutVector(ctx, "model-a", "shared text", []float32{1}))
		require.NoError(t, cache.PutVector(ctx, "model-b", "shared text", []float32{2}))

		a, err := cache.GetVector(ctx, "model-a", "shared text")
		require.NoError(t, err)
		b, err := cache.GetVector(ctx, "model-b", "shared text")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("overwrite replaces", func(t *testing.T) {
		require.NoError(t, cache.PutVector(ctx, "m", "text", []float32{1}))
		require.NoError(t, cache.PutVector(ctx, "m", "text", []float32{9}))

		got, err := cache.GetVector(ctx, "m", "text")
		require.NoError(t, err)
		assert.Equal(t, []float32{9}, got)
	})

	t.Run("closed cache rejects operations", func(t *testing.T) {
		closed, err := NewMemoryCache()
		require.NoError(t, err)
		require.NoError(t, closed.Close())

		_, err = closed.GetVector(ctx, "m", "text")
		require.ErrorIs(t, err, storage.ErrStorageClosed)
		err = closed.PutVector(ctx, "m", "text", []float32{1})
		require.ErrorIs(t, err, storage.ErrStorageClosed)
	})
}
