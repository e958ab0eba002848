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


package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/semscan/ai/mock"
	"github.com/poiesic/semscan/core"
	storagebadger "github.com/poiesic/semscan/storage/badger"
)

func testStatements(texts ...string) []core.Statement {
	statements := make([]core.Statement, len(texts))
	for i, text := range texts {
		statements[i] = core.Statement{Text: text, SourceFile: "doc.md", LineNumber: i + 1}
	}
	return statements
}

func TestEmbedStatements(t *testing.T) {
	ctx := context.Background()

	t.Run("rows align with statements", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		pipeline, err := NewPipeline(embedder, "test-model", WithBatchSize(2))
		require.NoError(t, err)
		defer pipeline.Close()

		statements := testStatements("alpha statement", "beta statement", "gamma statement")
		vectors, err := pipeline.EmbedStatements(ctx, statements)
		require.NoError(t, err)
		require.Len(t, vectors, 3)

		// The mock is deterministic, so each row must match a direct
		// normalized embedding of its statement text.
		for i, stmt := range statements {
			direct, err := embedder.EmbedText(ctx, stmt.Text)
			require.NoError(t, err)
			assert.Equal(t, NormalizeVector(direct), vectors[i], "row %d", i)
		}
	})

	t.Run("cache avoids repeat embedding", func(t *testing.T) {
		cache, err := storagebadger.NewMemoryCache()
		require.NoError(t, err)
		defer cache.Close()

		embedder := mock.NewMockEmbedder()
		pipeline, err := NewPipeline(embedder, "test-model", WithCache(cache))
		require.NoError(t, err)
		defer pipeline.Close()

		statements := testStatements("a statement worth caching")
		first, err := pipeline.EmbedStatements(ctx, statements)
		require.NoError(t, err)
		callsAfterFirst := embedder.CallCount()

		second, err := pipeline.EmbedStatements(ctx, statements)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, callsAfterFirst, embedder.CallCount(), "second run must be served from cache")
	})

	t.Run("empty corpus rejected", func(t *testing.T) {
		pipeline, err := NewPipeline(mock.NewMockEmbedder(), "test-model")
		require.NoError(t, err)
		defer pipeline.Close()

		_, err = pipeline.EmbedStatements(ctx, nil)
		require.ErrorIs(t, err, ErrNoStatements)
	})

	t.Run("embedder failure surfaces after retries", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, errors.New("model server unavailable")
		}

		pipeline, err := NewPipeline(embedder, "test-model", WithRetry(2, time.Millisecond))
		require.NoError(t, err)
		defer pipeline.Close()

		_, err = pipeline.EmbedStatements(ctx, testStatements("doomed statement"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "model server unavailable")
	})

	t.Run("count mismatch detected", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return [][]float32{{1, 0}}, nil
		}

		pipeline, err := NewPipeline(embedder, "test-model", WithRetry(1, time.Millisecond))
		require.NoError(t, err)
		defer pipeline.Close()

		_, err = pipeline.EmbedStatements(ctx, testStatements("one", "two"))
		require.ErrorIs(t, err, ErrEmbeddingCountMismatch)
	})
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds on later attempt", func(t *testing.T) {
		attempts := 0
		err := RetryWithBackoff(ctx, func() error {
			attempts++
			if attempts < 3 {
				return errors.New("transient")
			}
			return nil
		}, 5, time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("returns last error when exhausted", func(t *testing.T) {
		wantErr := errors.New("persistent")
		err := RetryWithBackoff(ctx, func() error { return wantErr }, 3, time.Millisecond)
		require.ErrorIs(t, err, wantErr)
	})

	t.Run("invalid attempt count", func(t *testing.T) {
		err := RetryWithBackoff(ctx, func() error { return nil }, 0, time.Millisecond)
		require.ErrorIs(t, err, ErrInvalidMaxAttempts)
	})

	t.Run("canceled context stops retrying", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		err := RetryWithBackoff(canceled, func() error { return errors.New("never seen") }, 3, time.Millisecond)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestNormalizeVector(t *testing.T) {
	t.Run("unit length", func(t *testing.T) {
		v := NormalizeVector([]float32{3, 4})
		assert.InDelta(t, 0.6, v[0], 1e-6)
		assert.InDelta(t, 0.8, v[1], 1e-6)
	})

	t.Run("zero vector stays zero", func(t *testing.T) {
		assert.Equal(t, []float32{0, 0}, NormalizeVector([]float32{0, 0}))
	})

	t.Run("empty vector", func(t *testing.T) {
		assert.Empty(t, NormalizeVector(nil))
	})
}
