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


package cluster

import (
	"log/slog"

	"github.com/poiesic/semscan/core"
)

// Method selects the clustering strategy.
type Method string

const (
	// MethodAuto picks the density method for corpora larger than
	// densityCutoff statements and the partition method otherwise.
	MethodAuto Method = "auto"
	// MethodDensity clusters by neighborhood density and marks unassigned
	// statements as noise.
	MethodDensity Method = "density"
	// MethodPartition clusters with seeded k-means, searching for the
	// cluster count when none is requested.
	MethodPartition Method = "partition"
)

const (
	// densityCutoff is the corpus size above which MethodAuto switches to
	// the density method. Density estimation is unreliable below it.
	densityCutoff = 50

	// maxSearchK bounds the silhouette search over candidate cluster counts.
	maxSearchK = 15

	// defaultMinClusterSize is the requested minimum cluster size for the
	// density method before adaptive scaling.
	defaultMinClusterSize = 5

	// randomSeed fixes every randomized sub-step so runs are reproducible.
	randomSeed = 42
)

// Engine clusters statement embeddings. It holds no mutable state across
// runs; a single Engine may be reused for any number of corpora.
type Engine struct {
	method            Method
	requestedClusters int // 0 means search for the best count
	minClusterSize    int
	logger            *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithMethod sets the clustering strategy. Default is MethodAuto.
func WithMethod(method Method) Option {
	return func(e *Engine) error {
		switch method {
		case MethodAuto, MethodDensity, MethodPartition:
			e.method = method
			return nil
		default:
			return ErrInvalidMethod
		}
	}
}

// WithClusterCount requests an explicit cluster count for the partition
// method. Zero (the default) searches for the best count.
func WithClusterCount(k int) Option {
	return func(e *Engine) error {
		if k < 0 {
			return ErrInvalidClusterCount
		}
		e.requestedClusters = k
		return nil
	}
}

// WithMinClusterSize sets the requested minimum cluster size for the density
// method. The effective value is scaled down on small corpora.
func WithMinClusterSize(size int) Option {
	return func(e *Engine) error {
		if size < 2 {
			return ErrInvalidMinClusterSize
		}
		e.minClusterSize = size
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEngine creates a clustering engine.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		method:         MethodAuto,
		minClusterSize: defaultMinClusterSize,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Cluster partitions the embedding matrix into topic clusters.
//
// Corpora with fewer than three statements cannot be clustered meaningfully;
// they are returned as a single synthetic cluster with label 0 for every
// statement and the corpus mean as the centroid.
func (e *Engine) Cluster(embeddings [][]float64) (*core.ClusterResult, error) {
	if err := core.ValidateMatrix(embeddings, len(embeddings)); err != nil {
		return nil, err
	}

	n := len(embeddings)
	if n < 3 {
		labels := make([]int, n)
		return &core.ClusterResult{
			Labels:    labels,
			Centroids: [][]float64{meanVector(embeddings)},
			NClusters: 1,
		}, nil
	}

	method := e.method
	if method == MethodAuto {
		if n > densityCutoff {
			method = MethodDensity
		} else {
			method = MethodPartition
		}
	}
	e.logger.Debug("clustering corpus", "statements", n, "method", method)

	if method == MethodDensity {
		return e.clusterDensity(embeddings), nil
	}
	return e.clusterPartition(embeddings), nil
}

// meanVector returns the element-wise mean of the given rows.
func meanVector(rows [][]float64) []float64 {
	mean := make([]float64, len(rows[0]))
	for _, row := range rows {
		for j, v := range row {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= float64(len(rows))
	}
	return mean
}
