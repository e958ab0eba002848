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

import "github.com/poiesic/semscan/core"

// ClusterNoise flags statements the clustering stage already rejected as
// noise. Scores are binary: 1 for noise points, 0 for clustered points.
// Partition clustering never produces noise, so under it this detector
// scores everything 0.
type ClusterNoise struct{}

// NewClusterNoise builds the detector.
func NewClusterNoise() *ClusterNoise {
	return &ClusterNoise{}
}

// Name implements Detector.
func (d *ClusterNoise) Name() string {
	return string(MethodClusterNoise)
}

// Score implements Detector. It requires cluster assignments.
func (d *ClusterNoise) Score(embeddings [][]float64, clusters *core.ClusterResult) ([]float64, error) {
	if clusters == nil {
		return nil, ErrClusterResultRequired
	}
	scores := make([]float64, len(embeddings))
	for i, label := range clusters.Labels {
		if label == core.NoiseLabel {
			scores[i] = 1
		}
	}
	return scores, nil
}
