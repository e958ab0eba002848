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


package stats

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/poiesic/semscan/core"
)

const (
	histogramBins        = 10
	defaultPairThreshold = 0.9
	defaultMaxPairs      = 50
)

// Engine computes corpus statistics from statements, their embeddings and
// a clustering of them.
type Engine struct {
	pairThreshold float64
	maxPairs      int
	logger        *slog.Logger
}

// Option is a functional option for configuring an Engine.
type Option func(*Engine)

// WithPairThreshold sets the minimum cosine similarity for a pair of
// statements to count as near-duplicates.
func WithPairThreshold(threshold float64) Option {
	return func(e *Engine) {
		e.pairThreshold = threshold
	}
}

// WithMaxPairs caps how many near-duplicate pairs are reported.
func WithMaxPairs(max int) Option {
	return func(e *Engine) {
		e.maxPairs = max
	}
}

// WithLogger sets the logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger.With("component", "stats")
		}
	}
}

// NewEngine creates a statistics engine with default settings.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		pairThreshold: defaultPairThreshold,
		maxPairs:      defaultMaxPairs,
		logger:        slog.Default().With("component", "stats"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compute derives the full statistics block for a clustered corpus.
// Cluster names are read from the cluster result when present; unnamed
// clusters fall back to a positional name.
func (e *Engine) Compute(statements []core.Statement, embeddings [][]float64, clusters *core.ClusterResult) (*core.Statistics, error) {
	if err := core.ValidateMatrix(embeddings, len(statements)); err != nil {
		return nil, err
	}
	if clusters == nil || len(clusters.Labels) != len(statements) {
		return nil, core.ErrStatementMismatch
	}

	stats := &core.Statistics{
		TotalStatements: len(statements),
		PerFile:         make(map[string]int),
		PerCluster:      make(map[int]core.ClusterStats),
		Coverage:        make(map[string][]int),
	}

	for _, stmt := range statements {
		stats.PerFile[stmt.SourceFile]++
	}
	stats.TotalFiles = len(stats.PerFile)

	norms := vectorNorms(embeddings)

	for label := range clusters.ClusterSizes() {
		indices := clusters.ClusterIndices(label)
		files := make(map[string]struct{})
		for _, i := range indices {
			files[statements[i].SourceFile] = struct{}{}
		}
		stats.PerCluster[label] = core.ClusterStats{
			ClusterID: label,
			Name:      clusterName(clusters, label),
			Count:     len(indices),
			Density:   meanPairwiseSimilarity(embeddings, norms, indices),
			Files:     core.SortedFileSet(files),
		}
	}

	stats.Coverage = coverage(statements, clusters.Labels)
	stats.SimilarityHist = similarityHistogram(embeddings, norms)
	stats.ClusterBalance = Gini(clusterSizes(stats.PerCluster))

	e.logger.Debug("computed statistics",
		"statements", stats.TotalStatements,
		"files", stats.TotalFiles,
		"clusters", len(stats.PerCluster),
		"balance", stats.ClusterBalance)
	return stats, nil
}

// SimilarPairs finds statement pairs whose embeddings exceed the engine's
// similarity threshold. Pairs within the same source file are skipped;
// repetition inside one file is expected, cross-file repetition is the
// signal. Results are ordered most similar first and capped at MaxPairs.
func (e *Engine) SimilarPairs(statements []core.Statement, embeddings [][]float64) ([]core.SimilarPair, error) {
	if err := core.ValidateMatrix(embeddings, len(statements)); err != nil {
		return nil, err
	}

	norms := vectorNorms(embeddings)
	var pairs []core.SimilarPair
	for i := 0; i < len(embeddings); i++ {
		for j := i + 1; j < len(embeddings); j++ {
			if statements[i].SourceFile == statements[j].SourceFile {
				continue
			}
			sim := cosine(embeddings[i], embeddings[j], norms[i], norms[j])
			if sim >= e.pairThreshold {
				pairs = append(pairs, core.NewSimilarPair(i, j, sim))
			}
		}
	}

	sort.SliceStable(pairs, func(a, b int) bool {
		return pairs[a].Similarity > pairs[b].Similarity
	})
	if len(pairs) > e.maxPairs {
		pairs = pairs[:e.maxPairs]
	}
	return pairs, nil
}

// Gini measures inequality over cluster sizes: 0 when every cluster has
// the same size, approaching 1 when one cluster dominates. Empty or
// all-zero input yields 0.
func Gini(sizes []int) float64 {
	n := len(sizes)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	for i, s := range sizes {
		sorted[i] = float64(s)
	}
	sort.Float64s(sorted)

	var total, weighted float64
	for i, v := range sorted {
		total += v
		weighted += float64(2*(i+1)-n-1) * v
	}
	if total == 0 {
		return 0
	}
	return weighted / (float64(n) * total)
}

func clusterName(clusters *core.ClusterResult, label int) string {
	if name, ok := clusters.ClusterNames[label]; ok {
		return name
	}
	if label == core.NoiseLabel {
		return "Noise"
	}
	return fmt.Sprintf("Cluster %d", label)
}

func clusterSizes(perCluster map[int]core.ClusterStats) []int {
	sizes := make([]int, 0, len(perCluster))
	for _, cs := range perCluster {
		sizes = append(sizes, cs.Count)
	}
	return sizes
}

// coverage maps each source file to the sorted set of cluster labels its
// statements landed in. Noise assignments do not count as coverage.
func coverage(statements []core.Statement, labels []int) map[string][]int {
	sets := make(map[string]map[int]struct{})
	for i, stmt := range statements {
		if labels[i] == core.NoiseLabel {
			continue
		}
		if sets[stmt.SourceFile] == nil {
			sets[stmt.SourceFile] = make(map[int]struct{})
		}
		sets[stmt.SourceFile][labels[i]] = struct{}{}
	}

	out := make(map[string][]int, len(sets))
	for file, set := range sets {
		ids := make([]int, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		out[file] = ids
	}
	return out
}

// similarityHistogram buckets every distinct-pair cosine similarity into
// ten fixed-width bins over [0, 1]. Negative similarities land in the
// first bin.
func similarityHistogram(embeddings [][]float64, norms []float64) []core.HistogramBin {
	bins := make([]core.HistogramBin, histogramBins)
	for b := range bins {
		lo := float64(b) / histogramBins
		hi := float64(b+1) / histogramBins
		bins[b].Label = fmt.Sprintf("%.1f-%.1f", lo, hi)
	}

	for i := 0; i < len(embeddings); i++ {
		for j := i + 1; j < len(embeddings); j++ {
			sim := cosine(embeddings[i], embeddings[j], norms[i], norms[j])
			b := int(sim * histogramBins)
			if b < 0 {
				b = 0
			}
			if b >= histogramBins {
				b = histogramBins - 1
			}
			bins[b].Count++
		}
	}
	return bins
}

// meanPairwiseSimilarity is the cluster density measure. Singletons are
// maximally dense by definition.
func meanPairwiseSimilarity(embeddings [][]float64, norms []float64, indices []int) float64 {
	if len(indices) < 2 {
		return 1.0
	}
	var sum float64
	var count int
	for a := 0; a < len(indices); a++ {
		for b := a + 1; b < len(indices); b++ {
			sum += cosine(embeddings[indices[a]], embeddings[indices[b]], norms[indices[a]], norms[indices[b]])
			count++
		}
	}
	return sum / float64(count)
}

func vectorNorms(embeddings [][]float64) []float64 {
	norms := make([]float64, len(embeddings))
	for i, vec := range embeddings {
		norms[i] = math.Sqrt(floats.Dot(vec, vec))
	}
	return norms
}

func cosine(a, b []float64, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	return floats.Dot(a, b) / (normA * normB)
}
