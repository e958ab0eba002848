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
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/semscan/ai"
	"github.com/poiesic/semscan/core"
	"github.com/poiesic/semscan/storage"
)

const (
	defaultBatchSize      = 32
	defaultMaxRetries     = 3
	defaultRetryBaseDelay = 500 * time.Millisecond
)

// Pipeline acquires embeddings for parsed statements. It consults the
// embedding cache first and sends cache misses to the embedder in
// batches, processed concurrently by a bounded worker pool.
type Pipeline struct {
	embedder       ai.Embedder
	cache          storage.EmbeddingCache
	model          string
	batchSize      int
	pool           *ants.Pool
	maxRetries     int
	retryBaseDelay time.Duration
	logger         *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithCache sets the embedding cache consulted before the embedder.
// Without a cache every statement is embedded fresh.
func WithCache(cache storage.EmbeddingCache) Option {
	return func(p *Pipeline) error {
		p.cache = cache
		return nil
	}
}

// WithBatchSize sets how many statements are embedded per API call.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.batchSize = size
		return nil
	}
}

// WithRetry sets the retry policy for embedding API calls.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(p *Pipeline) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		p.maxRetries = maxAttempts
		p.retryBaseDelay = baseDelay
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger != nil {
			p.logger = logger.With("component", "ingest")
		}
		return nil
	}
}

// NewPipeline creates an embedding pipeline for the given model.
func NewPipeline(embedder ai.Embedder, model string, opts ...Option) (*Pipeline, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		embedder:       embedder,
		model:          model,
		batchSize:      defaultBatchSize,
		pool:           pool,
		maxRetries:     defaultMaxRetries,
		retryBaseDelay: defaultRetryBaseDelay,
		logger:         slog.Default().With("component", "ingest"),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			p.pool.Release()
			return nil, err
		}
	}
	return p, nil
}

// Close releases the worker pool.
func (p *Pipeline) Close() {
	p.pool.Release()
}

// EmbedStatements returns one normalized embedding per statement, row i
// aligned with statements[i]. Cached vectors are reused; misses are
// embedded and written back to the cache.
func (p *Pipeline) EmbedStatements(ctx context.Context, statements []core.Statement) ([][]float32, error) {
	if len(statements) == 0 {
		return nil, ErrNoStatements
	}

	vectors := make([][]float32, len(statements))
	var misses []int
	for i, stmt := range statements {
		if p.cache == nil {
			misses = append(misses, i)
			continue
		}
		cached, err := p.cache.GetVector(ctx, p.model, stmt.Text)
		if err == nil {
			vectors[i] = cached
			continue
		}
		if err != storage.ErrNotFound {
			return nil, fmt.Errorf("embedding cache read: %w", err)
		}
		misses = append(misses, i)
	}

	p.logger.Debug("resolving embeddings",
		"statements", len(statements),
		"cached", len(statements)-len(misses),
		"misses", len(misses))

	if err := p.embedMisses(ctx, statements, vectors, misses); err != nil {
		return nil, err
	}
	return vectors, nil
}

// embedMisses embeds the uncached statements batch by batch on the
// worker pool and fills the corresponding rows of vectors.
func (p *Pipeline) embedMisses(ctx context.Context, statements []core.Statement, vectors [][]float32, misses []int) error {
	if len(misses) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	for start := 0; start < len(misses); start += p.batchSize {
		end := start + p.batchSize
		if end > len(misses) {
			end = len(misses)
		}
		batch := misses[start:end]

		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			if err := p.embedBatch(ctx, statements, vectors, batch); err != nil {
				fail(err)
			}
		})
		if submitErr != nil {
			wg.Done()
			fail(submitErr)
			break
		}
	}

	wg.Wait()
	return firstErr
}

func (p *Pipeline) embedBatch(ctx context.Context, statements []core.Statement, vectors [][]float32, batch []int) error {
	texts := make([]string, len(batch))
	for i, idx := range batch {
		texts[i] = statements[idx].Text
	}

	var embedded [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embedded, err = p.embedder.EmbedTexts(ctx, texts)
		return err
	}, p.maxRetries, p.retryBaseDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", p.maxRetries, err)
	}
	if len(embedded) != len(batch) {
		return fmt.Errorf("%w: expected %d, got %d", ErrEmbeddingCountMismatch, len(batch), len(embedded))
	}

	for i, idx := range batch {
		vec := NormalizeVector(embedded[i])
		vectors[idx] = vec
		if p.cache != nil {
			if err := p.cache.PutVector(ctx, p.model, statements[idx].Text, vec); err != nil {
				p.logger.Warn("embedding cache write failed", "statement", statements[idx].Location(), "error", err)
			}
		}
	}
	return nil
}
