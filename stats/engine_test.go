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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/semscan/core"
)

func statementFixture() ([]core.Statement, [][]float64, *core.ClusterResult) {
	statements := []core.Statement{
		{Text: "replica lag must stay below one second", SourceFile: "db.md", LineNumber: 3},
		{Text: "replica promotion is manual", SourceFile: "db.md", LineNumber: 9},
		{Text: "invoices settle within thirty days", SourceFile: "billing.md", LineNumber: 2},
		{Text: "invoices are immutable once issued", SourceFile: "billing.md", LineNumber: 7},
		{Text: "the mascot is a heron", SourceFile: "trivia.md", LineNumber: 1},
	}
	embeddings := [][]float64{
		{1, 0, 0},
		{0.95, 0.05, 0},
		{0, 1, 0},
		{0.05, 0.95, 0},
		{0, 0, 1},
	}
	clusters := &core.ClusterResult{
		Labels:    []int{0, 0, 1, 1, core.NoiseLabel},
		Centroids: [][]float64{{0.975, 0.025, 0}, {0.025, 0.975, 0}},
		NClusters: 2,
		ClusterNames: map[int]string{
			0: "replica lag",
			1: "invoices settle",
		},
	}
	return statements, embeddings, clusters
}

func TestCompute(t *testing.T) {
	statements, embeddings, clusters := statementFixture()
	engine := NewEngine()

	stats, err := engine.Compute(statements, embeddings, clusters)
	require.NoError(t, err)

	t.Run("corpus totals", func(t *testing.T) {
		assert.Equal(t, 5, stats.TotalStatements)
		assert.Equal(t, 3, stats.TotalFiles)
		assert.Equal(t, map[string]int{"db.md": 2, "billing.md": 2, "trivia.md": 1}, stats.PerFile)
	})

	t.Run("per-cluster stats", func(t *testing.T) {
		require.Len(t, stats.PerCluster, 3)

		c0 := stats.PerCluster[0]
		assert.Equal(t, "replica lag", c0.Name)
		assert.Equal(t, 2, c0.Count)
		assert.Equal(t, []string{"db.md"}, c0.Files)
		assert.InDelta(t, 1.0, c0.Density, 0.01)

		noise := stats.PerCluster[core.NoiseLabel]
		assert.Equal(t, "Noise", noise.Name)
		assert.Equal(t, 1, noise.Count)
		assert.Equal(t, 1.0, noise.Density, "singleton density")
	})

	t.Run("coverage excludes noise", func(t *testing.T) {
		assert.Equal(t, map[string][]int{
			"db.md":      {0},
			"billing.md": {1},
		}, stats.Coverage)
	})

	t.Run("histogram covers every pair once", func(t *testing.T) {
		require.Len(t, stats.SimilarityHist, 10)
		var total int
		for _, bin := range stats.SimilarityHist {
			total += bin.Count
		}
		assert.Equal(t, 10, total, "5 statements give 10 distinct pairs")
		assert.Equal(t, "0.9-1.0", stats.SimilarityHist[9].Label)
		assert.Equal(t, 2, stats.SimilarityHist[9].Count, "the two in-cluster pairs")
	})

	t.Run("cluster balance", func(t *testing.T) {
		// Sizes 2, 2, 1 are nearly balanced.
		assert.Less(t, stats.ClusterBalance, 0.2)
		assert.GreaterOrEqual(t, stats.ClusterBalance, 0.0)
	})
}

func TestComputeValidation(t *testing.T) {
	statements, embeddings, clusters := statementFixture()
	engine := NewEngine()

	t.Run("empty matrix", func(t *testing.T) {
		_, err := engine.Compute(nil, nil, clusters)
		require.ErrorIs(t, err, core.ErrEmptyMatrix)
	})

	t.Run("label count mismatch", func(t *testing.T) {
		_, err := engine.Compute(statements, embeddings, &core.ClusterResult{Labels: []int{0}})
		require.ErrorIs(t, err, core.ErrStatementMismatch)
	})
}

func TestSimilarPairs(t *testing.T) {
	statements := []core.Statement{
		{Text: "retries use exponential backoff", SourceFile: "a.md", LineNumber: 1},
		{Text: "retry with exponential backoff", SourceFile: "b.md", LineNumber: 4},
		{Text: "retry with exponential backoff always", SourceFile: "b.md", LineNumber: 9},
		{Text: "the cache is write-through", SourceFile: "c.md", LineNumber: 2},
	}
	embeddings := [][]float64{
		{1, 0},
		{0.99, 0.01},
		{0.99, 0.012},
		{0, 1},
	}

	t.Run("cross-file duplicates found, same-file skipped", func(t *testing.T) {
		pairs, err := NewEngine(WithPairThreshold(0.95)).SimilarPairs(statements, embeddings)
		require.NoError(t, err)
		require.Len(t, pairs, 2)
		for _, p := range pairs {
			assert.Less(t, p.IndexA, p.IndexB)
			assert.NotEqual(t, statements[p.IndexA].SourceFile, statements[p.IndexB].SourceFile)
			assert.GreaterOrEqual(t, p.Similarity, 0.95)
		}
	})

	t.Run("cap respected", func(t *testing.T) {
		pairs, err := NewEngine(WithPairThreshold(0.95), WithMaxPairs(1)).SimilarPairs(statements, embeddings)
		require.NoError(t, err)
		require.Len(t, pairs, 1)
	})
}

func TestGini(t *testing.T) {
	tests := []struct {
		name  string
		sizes []int
		check func(t *testing.T, g float64)
	}{
		{"empty", nil, func(t *testing.T, g float64) { assert.Equal(t, 0.0, g) }},
		{"all zero", []int{0, 0}, func(t *testing.T, g float64) { assert.Equal(t, 0.0, g) }},
		{"perfectly balanced", []int{10, 10, 10}, func(t *testing.T, g float64) { assert.InDelta(t, 0.0, g, 1e-12) }},
		{"heavily skewed", []int{1, 1, 98}, func(t *testing.T, g float64) { assert.Greater(t, g, 0.6) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.check(t, Gini(tc.sizes))
		})
	}

	t.Run("more skew means higher coefficient", func(t *testing.T) {
		assert.Greater(t, Gini([]int{1, 1, 50}), Gini([]int{10, 15, 20}))
	})
}
