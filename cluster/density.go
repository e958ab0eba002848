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
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/poiesic/semscan/core"
)

// epsQuantile is the quantile of the per-point neighbor-distance curve used
// as the density reachability radius. Points whose neighborhood lies beyond
// it do not join any cluster.
const epsQuantile = 0.75

// clusterDensity runs the density method: neighborhood expansion with an
// adaptive minimum cluster size. Statements that cannot be assigned to any
// dense region receive core.NoiseLabel.
func (e *Engine) clusterDensity(embeddings [][]float64) *core.ClusterResult {
	n := len(embeddings)

	minSize := max(2, min(e.minClusterSize, n/10))
	eps := estimateRadius(embeddings, minSize)
	labels, nClusters := expandDensity(embeddings, eps, minSize)

	e.logger.Debug("density clustering complete",
		"clusters", nClusters, "minClusterSize", minSize, "radius", eps)

	// Centroids per cluster label; the noise mean is kept separately as a
	// distance fallback only.
	centroids := make([][]float64, nClusters)
	counts := make([]int, nClusters)
	var noiseSum []float64
	noiseCount := 0

	dim := len(embeddings[0])
	for i := range centroids {
		centroids[i] = make([]float64, dim)
	}
	for i, label := range labels {
		if label == core.NoiseLabel {
			if noiseSum == nil {
				noiseSum = make([]float64, dim)
			}
			for j, v := range embeddings[i] {
				noiseSum[j] += v
			}
			noiseCount++
			continue
		}
		for j, v := range embeddings[i] {
			centroids[label][j] += v
		}
		counts[label]++
	}
	for label := range centroids {
		for j := range centroids[label] {
			centroids[label][j] /= float64(counts[label])
		}
	}
	if noiseCount > 0 {
		for j := range noiseSum {
			noiseSum[j] /= float64(noiseCount)
		}
	}

	return &core.ClusterResult{
		Labels:        labels,
		Centroids:     centroids,
		NClusters:     nClusters,
		NoiseCentroid: noiseSum,
	}
}

// estimateRadius derives the reachability radius from the distribution of
// each point's distance to its minSize-th nearest neighbor.
func estimateRadius(data [][]float64, minSize int) float64 {
	n := len(data)
	kth := min(minSize, n-1)

	kDistances := make([]float64, n)
	dists := make([]float64, 0, n-1)
	for i := range data {
		dists = dists[:0]
		for j := range data {
			if i != j {
				dists = append(dists, math.Sqrt(sqDistance(data[i], data[j])))
			}
		}
		sort.Float64s(dists)
		kDistances[i] = dists[kth-1]
	}

	sort.Float64s(kDistances)
	return stat.Quantile(epsQuantile, stat.Empirical, kDistances, nil)
}

// expandDensity performs the neighborhood expansion. A point with at least
// minSize neighbors (itself included) within eps is a core point; clusters
// grow from core points in scan order, so labels are contiguous from zero
// and the result is deterministic.
func expandDensity(data [][]float64, eps float64, minSize int) ([]int, int) {
	n := len(data)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = core.NoiseLabel
	}
	visited := make([]bool, n)

	neighborhood := func(i int) []int {
		var out []int
		limit := eps * eps
		for j := range data {
			if sqDistance(data[i], data[j]) <= limit {
				out = append(out, j)
			}
		}
		return out
	}

	next := 0
	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		visited[i] = true

		neighbors := neighborhood(i)
		if len(neighbors) < minSize {
			continue // stays noise unless reached from a core point later
		}

		labels[i] = next
		queue := neighbors
		for len(queue) > 0 {
			j := queue[0]
			queue = queue[1:]

			if labels[j] == core.NoiseLabel {
				labels[j] = next // border or core point reached from the seed
			}
			if visited[j] {
				continue
			}
			visited[j] = true

			more := neighborhood(j)
			if len(more) >= minSize {
				queue = append(queue, more...)
			}
		}
		next++
	}

	return labels, next
}
