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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/semscan/core"
)

func TestConfigValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		require.NoError(t, DefaultConfig().Validate())
	})

	tests := []struct {
		name string
		opts []ConfigOption
	}{
		{"unknown method", []ConfigOption{WithMethod("centroid")}},
		{"contamination zero", []ConfigOption{WithContamination(0)}},
		{"contamination one", []ConfigOption{WithContamination(1)}},
		{"negative weight", []ConfigOption{WithEnsembleWeights(0.5, -0.1, 0.6)}},
		{"all-zero weights", []ConfigOption{WithEnsembleWeights(0, 0, 0)}},
		{"agree below range", []ConfigOption{WithMinMethodsAgree(-1)}},
		{"agree above range", []ConfigOption{WithMinMethodsAgree(4)}},
		{"neighbor count too small", []ConfigOption{WithNeighborCount(1)}},
		{"no estimators", []ConfigOption{WithEstimatorCount(0)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, NewConfig(tc.opts...).Validate())
		})
	}
}

// scoreFixture clusters a cloud-with-outlier corpus by hand: every dense
// point in cluster 0, the far point marked noise.
func scoreFixture(n, dim int) ([][]float64, *core.ClusterResult) {
	points := cloudWithOutlier(n, dim)
	labels := make([]int, n)
	labels[n-1] = core.NoiseLabel

	centroid := make([]float64, dim)
	for _, vec := range points[:n-1] {
		for d, v := range vec {
			centroid[d] += v
		}
	}
	for d := range centroid {
		centroid[d] /= float64(n - 1)
	}
	return points, &core.ClusterResult{
		Labels:        labels,
		Centroids:     [][]float64{centroid},
		NClusters:     1,
		NoiseCentroid: points[n-1],
	}
}

func TestScorerEnsemble(t *testing.T) {
	points, clusters := scoreFixture(60, 8)

	scorer, err := NewScorer(NewConfig(WithContamination(0.05)))
	require.NoError(t, err)

	result, err := scorer.Score(points, clusters)
	require.NoError(t, err)

	t.Run("all detectors reported", func(t *testing.T) {
		require.Len(t, result.DetectorScores, 4)
		for name, vec := range result.DetectorScores {
			assert.Len(t, vec, 60, "detector %s", name)
		}
		assert.Equal(t, noiseThreshold, result.Thresholds[string(MethodClusterNoise)])
	})

	t.Run("outlier flagged and ranked first", func(t *testing.T) {
		require.NotEmpty(t, result.Anomalies)
		top := result.Anomalies[0]
		assert.Equal(t, 59, top.StatementIndex)
		assert.Equal(t, 1, top.Rank)
		assert.Equal(t, core.NoiseLabel, top.ClusterID)
		assert.GreaterOrEqual(t, len(top.FlaggedBy), 2)
		assert.Contains(t, top.Reason, "flagged by")
	})

	t.Run("agreement bonus applied", func(t *testing.T) {
		// The far point tops every detector, so its weighted sum plus the
		// bonus must exceed the best possible bonus-free score.
		assert.Greater(t, result.Combined[59], 0.9)
	})

	t.Run("ranks are contiguous and scores descend", func(t *testing.T) {
		for i, a := range result.Anomalies {
			assert.Equal(t, i+1, a.Rank)
			if i > 0 {
				assert.GreaterOrEqual(t, result.Anomalies[i-1].Score, a.Score)
			}
		}
	})

	t.Run("reproducible", func(t *testing.T) {
		again, err := scorer.Score(points, clusters)
		require.NoError(t, err)
		assert.Equal(t, result.Combined, again.Combined)
		assert.Equal(t, result.Anomalies, again.Anomalies)
	})
}

func TestScorerSingleMethod(t *testing.T) {
	points, clusters := scoreFixture(40, 6)

	t.Run("cluster-noise flags exactly the noise points", func(t *testing.T) {
		scorer, err := NewScorer(NewConfig(WithMethod(MethodClusterNoise)))
		require.NoError(t, err)

		result, err := scorer.Score(points, clusters)
		require.NoError(t, err)
		assert.Equal(t, noiseThreshold, result.Threshold)
		require.Len(t, result.Anomalies, 1)
		assert.Equal(t, 39, result.Anomalies[0].StatementIndex)
	})

	t.Run("global-isolation passthrough", func(t *testing.T) {
		scorer, err := NewScorer(NewConfig(
			WithMethod(MethodGlobalIsolation),
			WithContamination(0.1),
		))
		require.NoError(t, err)

		result, err := scorer.Score(points, clusters)
		require.NoError(t, err)
		assert.Equal(t, result.DetectorScores[string(MethodGlobalIsolation)], result.Combined)
		require.NotEmpty(t, result.Anomalies)
		assert.Equal(t, 39, result.Anomalies[0].StatementIndex)
	})
}

func TestScorerValidation(t *testing.T) {
	points, clusters := scoreFixture(10, 4)

	t.Run("nil cluster result", func(t *testing.T) {
		scorer, err := NewScorer(nil)
		require.NoError(t, err)
		_, err = scorer.Score(points, nil)
		require.ErrorIs(t, err, ErrClusterResultRequired)
	})

	t.Run("empty matrix", func(t *testing.T) {
		scorer, err := NewScorer(nil)
		require.NoError(t, err)
		_, err = scorer.Score(nil, clusters)
		require.ErrorIs(t, err, core.ErrEmptyMatrix)
	})

	t.Run("invalid config rejected at construction", func(t *testing.T) {
		_, err := NewScorer(NewConfig(WithContamination(2)))
		require.Error(t, err)
	})
}

func TestClassifySeverity(t *testing.T) {
	tests := []struct {
		name      string
		score     float64
		agreement int
		want      core.Severity
	}{
		{"high by score", 0.85, 1, core.SeverityHigh},
		{"high by agreement", 0.5, 3, core.SeverityHigh},
		{"medium by score", 0.65, 1, core.SeverityMedium},
		{"medium by agreement", 0.3, 2, core.SeverityMedium},
		{"low", 0.3, 1, core.SeverityLow},
		{"boundary stays medium", 0.8, 1, core.SeverityMedium},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifySeverity(tc.score, tc.agreement))
		})
	}
}
