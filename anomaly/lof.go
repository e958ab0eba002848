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


package anomaly

import (
	"math"
	"sort"

	"github.com/poiesic/semscan/core"
)

// LocalDensity detects statements whose neighborhood is markedly sparser
// than their neighbors' neighborhoods, the local outlier factor computed
// over cosine distance. It catches points that look ordinary globally but
// sit at the fringe of their own semantic region.
type LocalDensity struct {
	neighbors int
}

// NewLocalDensity builds the detector with the given neighborhood size.
// The size is clamped to [2, N-1] for each corpus it scores.
func NewLocalDensity(neighbors int) *LocalDensity {
	return &LocalDensity{neighbors: neighbors}
}

// Name implements Detector.
func (d *LocalDensity) Name() string {
	return string(MethodLocalDensity)
}

// Score implements Detector. The clusters argument is unused.
func (d *LocalDensity) Score(embeddings [][]float64, _ *core.ClusterResult) ([]float64, error) {
	n := len(embeddings)
	scores := make([]float64, n)
	if n < 3 {
		return scores, nil
	}

	k := d.neighbors
	if k > n-1 {
		k = n - 1
	}
	if k < 2 {
		k = 2
	}

	dist := cosineDistanceMatrix(embeddings)

	// k nearest neighbors of each point, by cosine distance.
	neighbors := make([][]int, n)
	kDist := make([]float64, n)
	for i := 0; i < n; i++ {
		order := make([]int, 0, n-1)
		for j := 0; j < n; j++ {
			if j != i {
				order = append(order, j)
			}
		}
		sort.Slice(order, func(a, b int) bool {
			if dist[i][order[a]] != dist[i][order[b]] {
				return dist[i][order[a]] < dist[i][order[b]]
			}
			return order[a] < order[b]
		})
		neighbors[i] = order[:k]
		kDist[i] = dist[i][order[k-1]]
	}

	// Local reachability density.
	lrd := make([]float64, n)
	for i := 0; i < n; i++ {
		var reachSum float64
		for _, j := range neighbors[i] {
			reachSum += math.Max(kDist[j], dist[i][j])
		}
		if reachSum == 0 {
			lrd[i] = math.Inf(1)
		} else {
			lrd[i] = float64(k) / reachSum
		}
	}

	for i := 0; i < n; i++ {
		var ratioSum float64
		for _, j := range neighbors[i] {
			if math.IsInf(lrd[i], 1) {
				ratioSum += 1
			} else if math.IsInf(lrd[j], 1) {
				ratioSum += math.Inf(1)
			} else {
				ratioSum += lrd[j] / lrd[i]
			}
		}
		lof := ratioSum / float64(k)
		if math.IsInf(lof, 1) || math.IsNaN(lof) {
			lof = 1
		}
		scores[i] = lof
	}
	return minMaxNormalize(scores), nil
}

func cosineDistanceMatrix(embeddings [][]float64) [][]float64 {
	n := len(embeddings)
	norms := make([]float64, n)
	for i, vec := range embeddings {
		var sum float64
		for _, v := range vec {
			sum += v * v
		}
		norms[i] = math.Sqrt(sum)
	}
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := 1 - cosineSimilarity(embeddings[i], embeddings[j], norms[i], norms[j])
			dist[i][j] = d
			dist[j][i] = d
		}
	}
	return dist
}

func cosineSimilarity(a, b []float64, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot / (normA * normB)
}
