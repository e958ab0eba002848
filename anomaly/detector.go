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
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/poiesic/semscan/core"
)

// Detector scores every statement in a corpus for anomalousness.
// Implementations return one score per embedding row, each in [0, 1]
// with higher meaning more anomalous.
type Detector interface {
	// Name identifies the detector in results and log output.
	Name() string

	// Score computes per-statement anomaly scores. Detectors that do not
	// use cluster assignments accept a nil clusters argument.
	Score(embeddings [][]float64, clusters *core.ClusterResult) ([]float64, error)
}

// minMaxNormalize rescales scores into [0, 1] in place. A zero-variance
// vector maps to all zeros so that a uniform corpus flags nothing.
func minMaxNormalize(scores []float64) []float64 {
	if len(scores) == 0 {
		return scores
	}
	lo, hi := scores[0], scores[0]
	for _, s := range scores[1:] {
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}
	span := hi - lo
	if span == 0 {
		for i := range scores {
			scores[i] = 0
		}
		return scores
	}
	for i := range scores {
		scores[i] = (scores[i] - lo) / span
	}
	return scores
}

// percentile returns the p-quantile of values using linear interpolation,
// leaving the input untouched.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.LinInterp, sorted, nil)
}

// clip01 clamps v into [0, 1].
func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
