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
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/poiesic/semscan/core"
)

// clusterPartition runs the partition method: seeded k-means with a
// silhouette search over k when no count is requested. The final count is
// clamped to [2, n/2].
func (e *Engine) clusterPartition(embeddings [][]float64) *core.ClusterResult {
	n := len(embeddings)

	k := e.requestedClusters
	if k == 0 {
		k = e.searchClusterCount(embeddings)
	}

	// Keep k in a range where partitions stay meaningful.
	k = max(2, min(k, n/2))

	km := newKMeans(k, randomSeed)
	km.fit(embeddings)

	return &core.ClusterResult{
		Labels:    km.labels,
		Centroids: km.centroids,
		NClusters: k,
	}
}

// searchClusterCount scans k in [2, min(maxSearchK, n-1)] and keeps the k
// with the best silhouette score. Candidates whose scoring fails are
// skipped; ties keep the smallest k; if nothing validates the search falls
// back to k=2.
func (e *Engine) searchClusterCount(embeddings [][]float64) int {
	n := len(embeddings)
	maxK := min(maxSearchK, n-1)
	if maxK < 2 {
		return 2
	}

	bestK := 2
	bestScore := math.Inf(-1)

	for k := 2; k <= maxK; k++ {
		km := newKMeans(k, randomSeed)
		km.fit(embeddings)

		score, err := silhouetteScore(embeddings, km.labels)
		if err != nil {
			e.logger.Debug("skipping degenerate cluster count", "k", k, "err", err)
			continue
		}
		if score > bestScore {
			bestScore = score
			bestK = k
		}
	}

	return bestK
}

// kMeans is a Lloyd-iteration clusterer with k-means++ initialization.
type kMeans struct {
	k         int
	maxIter   int
	tolerance float64
	rng       *rand.Rand

	centroids [][]float64
	labels    []int
	inertia   float64
}

func newKMeans(k int, seed int64) *kMeans {
	return &kMeans{
		k:         k,
		maxIter:   100,
		tolerance: 1e-4,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

func (km *kMeans) fit(data [][]float64) {
	n := len(data)
	k := km.k
	if k > n {
		k = n
		km.k = k
	}
	dim := len(data[0])

	km.centroids = km.initCentroids(data, k)
	km.labels = make([]int, n)

	var prevInertia float64
	for iter := 0; iter < km.maxIter; iter++ {
		// Assignment step.
		km.inertia = 0
		for i, point := range data {
			best, bestDist := 0, math.MaxFloat64
			for j, centroid := range km.centroids {
				if d := sqDistance(point, centroid); d < bestDist {
					best, bestDist = j, d
				}
			}
			km.labels[i] = best
			km.inertia += bestDist
		}

		if iter > 0 && math.Abs(prevInertia-km.inertia) < km.tolerance {
			break
		}
		prevInertia = km.inertia

		// Update step.
		counts := make([]int, k)
		sums := make([][]float64, k)
		for j := range sums {
			sums[j] = make([]float64, dim)
		}
		for i, label := range km.labels {
			counts[label]++
			floats.Add(sums[label], data[i])
		}
		for j := range sums {
			if counts[j] > 0 {
				floats.Scale(1/float64(counts[j]), sums[j])
				km.centroids[j] = sums[j]
			}
			// Empty clusters keep their previous centroid.
		}
	}
}

// initCentroids seeds centroids with the k-means++ scheme: the first pick is
// uniform, each later pick is weighted by squared distance to the nearest
// chosen centroid.
func (km *kMeans) initCentroids(data [][]float64, k int) [][]float64 {
	n := len(data)
	centroids := make([][]float64, 0, k)

	first := km.rng.Intn(n)
	centroids = append(centroids, cloneVector(data[first]))

	distances := make([]float64, n)
	for len(centroids) < k {
		total := 0.0
		for i, point := range data {
			minDist := math.MaxFloat64
			for _, c := range centroids {
				if d := sqDistance(point, c); d < minDist {
					minDist = d
				}
			}
			distances[i] = minDist
			total += minDist
		}

		if total == 0 {
			// All remaining points coincide with a centroid; duplicate one.
			centroids = append(centroids, cloneVector(data[km.rng.Intn(n)]))
			continue
		}

		r := km.rng.Float64() * total
		cumulative := 0.0
		picked := n - 1
		for i, d := range distances {
			cumulative += d
			if cumulative >= r {
				picked = i
				break
			}
		}
		centroids = append(centroids, cloneVector(data[picked]))
	}

	return centroids
}

// silhouetteScore computes the mean silhouette coefficient over all points
// with Euclidean distances. It reports errDegenerate when the labeling has
// fewer than two distinct clusters, which makes the score undefined.
func silhouetteScore(data [][]float64, labels []int) (float64, error) {
	n := len(data)

	members := make(map[int][]int)
	for i, label := range labels {
		members[label] = append(members[label], i)
	}
	if len(members) < 2 {
		return 0, errDegenerate
	}

	var total float64
	for i := 0; i < n; i++ {
		own := labels[i]
		if len(members[own]) == 1 {
			// Singleton clusters contribute zero by convention.
			continue
		}

		// Mean distance to own cluster, excluding self.
		var intra float64
		for _, j := range members[own] {
			if j != i {
				intra += math.Sqrt(sqDistance(data[i], data[j]))
			}
		}
		intra /= float64(len(members[own]) - 1)

		// Smallest mean distance to any other cluster.
		inter := math.MaxFloat64
		for label, idx := range members {
			if label == own {
				continue
			}
			var sum float64
			for _, j := range idx {
				sum += math.Sqrt(sqDistance(data[i], data[j]))
			}
			if mean := sum / float64(len(idx)); mean < inter {
				inter = mean
			}
		}

		denom := math.Max(intra, inter)
		if denom > 0 {
			total += (inter - intra) / denom
		}
	}

	return total / float64(n), nil
}

// sqDistance returns the squared Euclidean distance between two vectors.
// Comparisons on squared distances avoid the square root.
func sqDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}

func cloneVector(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
