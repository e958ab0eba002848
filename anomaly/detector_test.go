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
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/semscan/core"
)

// cloudWithOutlier builds n-1 points in a tight gaussian ball around the
// origin plus one point far away, the last row.
func cloudWithOutlier(n, dim int) [][]float64 {
	rng := rand.New(rand.NewSource(7))
	points := make([][]float64, n)
	for i := 0; i < n-1; i++ {
		vec := make([]float64, dim)
		for d := range vec {
			vec[d] = rng.NormFloat64() * 0.1
		}
		points[i] = vec
	}
	far := make([]float64, dim)
	for d := range far {
		far[d] = 25
	}
	points[n-1] = far
	return points
}

// cloudWithDirectionalOutlier builds n-1 points sharing one dominant
// direction plus one point, the last row, pointing along an orthogonal
// axis. The outlier stands out in cosine geometry, where magnitude is
// irrelevant, rather than in raw distance.
func cloudWithDirectionalOutlier(n, dim int) [][]float64 {
	rng := rand.New(rand.NewSource(7))
	points := make([][]float64, n)
	for i := 0; i < n-1; i++ {
		vec := make([]float64, dim)
		for d := range vec {
			vec[d] = rng.NormFloat64() * 0.05
		}
		vec[0] += 1
		points[i] = vec
	}
	far := make([]float64, dim)
	far[1] = 1
	points[n-1] = far
	return points
}

func assertScoreVector(t *testing.T, scores []float64, n int) {
	t.Helper()
	require.Len(t, scores, n)
	for i, s := range scores {
		assert.GreaterOrEqual(t, s, 0.0, "score %d below range", i)
		assert.LessOrEqual(t, s, 1.0, "score %d above range", i)
	}
}

func TestMinMaxNormalize(t *testing.T) {
	t.Run("rescales to unit range", func(t *testing.T) {
		scores := minMaxNormalize([]float64{2, 4, 6})
		assert.Equal(t, []float64{0, 0.5, 1}, scores)
	})

	t.Run("zero variance maps to zeros", func(t *testing.T) {
		scores := minMaxNormalize([]float64{3, 3, 3})
		assert.Equal(t, []float64{0, 0, 0}, scores)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, minMaxNormalize(nil))
	})
}

func TestGlobalIsolation(t *testing.T) {
	points := cloudWithOutlier(60, 8)
	det := NewGlobalIsolation(100)

	scores, err := det.Score(points, nil)
	require.NoError(t, err)
	assertScoreVector(t, scores, 60)

	t.Run("outlier scores highest", func(t *testing.T) {
		for i := 0; i < 59; i++ {
			assert.Less(t, scores[i], scores[59])
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		again, err := det.Score(points, nil)
		require.NoError(t, err)
		assert.Equal(t, scores, again)
	})

	t.Run("tiny corpus scores zero", func(t *testing.T) {
		tiny, err := det.Score(points[:1], nil)
		require.NoError(t, err)
		assert.Equal(t, []float64{0}, tiny)
	})
}

func TestLocalDensity(t *testing.T) {
	points := cloudWithDirectionalOutlier(60, 8)
	det := NewLocalDensity(20)

	scores, err := det.Score(points, nil)
	require.NoError(t, err)
	assertScoreVector(t, scores, 60)

	t.Run("directional outlier scores highest", func(t *testing.T) {
		for i := 0; i < 59; i++ {
			assert.Less(t, scores[i], scores[59])
		}
	})

	t.Run("magnitude alone is not an outlier", func(t *testing.T) {
		scaled := make([][]float64, len(points))
		for i, p := range points {
			scaled[i] = p
		}
		big := make([]float64, 8)
		copy(big, points[0])
		for d := range big {
			big[d] *= 40
		}
		scaled[59] = big

		rescored, err := det.Score(scaled, nil)
		require.NoError(t, err)
		assert.Less(t, rescored[59], 0.5, "a rescaled inlier direction must not be flagged")
	})

	t.Run("neighborhood clamped for small corpora", func(t *testing.T) {
		small, err := det.Score(points[:5], nil)
		require.NoError(t, err)
		assertScoreVector(t, small, 5)
	})

	t.Run("fewer than three points scores zero", func(t *testing.T) {
		tiny, err := det.Score(points[:2], nil)
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 0}, tiny)
	})
}

func TestClusterNoise(t *testing.T) {
	points := cloudWithOutlier(5, 4)

	t.Run("requires cluster result", func(t *testing.T) {
		_, err := NewClusterNoise().Score(points, nil)
		require.ErrorIs(t, err, ErrClusterResultRequired)
	})

	t.Run("binary scores", func(t *testing.T) {
		clusters := &core.ClusterResult{Labels: []int{0, 0, core.NoiseLabel, 1, core.NoiseLabel}}
		scores, err := NewClusterNoise().Score(points, clusters)
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 0, 1, 0, 1}, scores)
	})
}

func TestCentroidDistance(t *testing.T) {
	points := [][]float64{{0, 0}, {1, 0}, {10, 10}, {50, 50}}
	clusters := &core.ClusterResult{
		Labels:    []int{0, 0, 1, core.NoiseLabel},
		Centroids: [][]float64{{0.5, 0}, {10, 10}},
		NClusters: 2,
	}

	det := NewCentroidDistance()
	assert.Equal(t, NameCentroidDistance, det.Name())

	t.Run("requires cluster result", func(t *testing.T) {
		_, err := det.Score(points, nil)
		require.ErrorIs(t, err, ErrClusterResultRequired)
	})

	scores, err := det.Score(points, clusters)
	require.NoError(t, err)
	assertScoreVector(t, scores, 4)

	t.Run("noise point measured against nearest centroid", func(t *testing.T) {
		assert.Equal(t, 1.0, scores[3], "far noise point should dominate after normalization")
	})

	t.Run("cluster member near its centroid scores low", func(t *testing.T) {
		assert.Less(t, scores[2], scores[3])
	})

	t.Run("noise centroid fallback when no clusters", func(t *testing.T) {
		noiseOnly := &core.ClusterResult{
			Labels:        []int{core.NoiseLabel, core.NoiseLabel},
			NoiseCentroid: []float64{0, 0},
		}
		scores, err := det.Score(points[:2], noiseOnly)
		require.NoError(t, err)
		assertScoreVector(t, scores, 2)
		assert.Greater(t, scores[1], scores[0])
	})
}
