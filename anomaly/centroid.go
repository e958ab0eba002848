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

	"github.com/poiesic/semscan/core"
)

// NameCentroidDistance is the reporting name of the centroid detector. It
// is not a Method: the detector never drives the combination policy.
const NameCentroidDistance = "centroid-distance"

// CentroidDistance measures how far each statement sits from the center
// of its assigned cluster, in Euclidean distance. It does not vote in the
// ensemble; its scores are reported as supplementary evidence alongside
// each flagged statement.
type CentroidDistance struct{}

// NewCentroidDistance builds the detector.
func NewCentroidDistance() *CentroidDistance {
	return &CentroidDistance{}
}

// Name implements Detector.
func (d *CentroidDistance) Name() string {
	return NameCentroidDistance
}

// Score implements Detector. It requires cluster assignments. Noise
// points are measured against the nearest cluster centroid, falling back
// to the noise centroid when no clusters exist.
func (d *CentroidDistance) Score(embeddings [][]float64, clusters *core.ClusterResult) ([]float64, error) {
	if clusters == nil {
		return nil, ErrClusterResultRequired
	}
	scores := make([]float64, len(embeddings))
	for i, vec := range embeddings {
		label := clusters.Labels[i]
		if label != core.NoiseLabel && label < len(clusters.Centroids) {
			scores[i] = euclideanDistance(vec, clusters.Centroids[label])
			continue
		}
		best := math.Inf(1)
		for _, centroid := range clusters.Centroids {
			if dist := euclideanDistance(vec, centroid); dist < best {
				best = dist
			}
		}
		if math.IsInf(best, 1) {
			if clusters.NoiseCentroid != nil {
				best = euclideanDistance(vec, clusters.NoiseCentroid)
			} else {
				best = 0
			}
		}
		scores[i] = best
	}
	return minMaxNormalize(scores), nil
}

func euclideanDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}
