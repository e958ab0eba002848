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
	"math/rand"

	"github.com/poiesic/semscan/core"
)

const (
	isolationSeed       = 42
	isolationSampleSize = 256
)

// GlobalIsolation detects statements that sit far from the bulk of the
// embedding space, independent of any cluster structure. It builds an
// ensemble of randomized isolation trees; points that sit in sparse
// regions isolate in few splits and receive short average path lengths.
type GlobalIsolation struct {
	estimators int
}

// NewGlobalIsolation builds the detector with the given tree count.
func NewGlobalIsolation(estimators int) *GlobalIsolation {
	return &GlobalIsolation{estimators: estimators}
}

// Name implements Detector.
func (d *GlobalIsolation) Name() string {
	return string(MethodGlobalIsolation)
}

// Score implements Detector. The clusters argument is unused.
func (d *GlobalIsolation) Score(embeddings [][]float64, _ *core.ClusterResult) ([]float64, error) {
	n := len(embeddings)
	scores := make([]float64, n)
	if n < 2 {
		return scores, nil
	}

	sampleSize := isolationSampleSize
	if sampleSize > n {
		sampleSize = n
	}
	maxDepth := int(math.Ceil(math.Log2(float64(sampleSize))))
	rng := rand.New(rand.NewSource(isolationSeed))

	trees := make([]*isolationNode, d.estimators)
	for i := range trees {
		sample := sampleRows(embeddings, sampleSize, rng)
		trees[i] = buildIsolationTree(sample, 0, maxDepth, rng)
	}

	norm := averagePathLength(sampleSize)
	for i, vec := range embeddings {
		var total float64
		for _, tree := range trees {
			total += pathLength(tree, vec, 0)
		}
		avg := total / float64(len(trees))
		scores[i] = math.Pow(2, -avg/norm)
	}
	return minMaxNormalize(scores), nil
}

type isolationNode struct {
	splitDim   int
	splitValue float64
	left       *isolationNode
	right      *isolationNode
	size       int
}

func sampleRows(embeddings [][]float64, size int, rng *rand.Rand) [][]float64 {
	if size >= len(embeddings) {
		return embeddings
	}
	perm := rng.Perm(len(embeddings))
	sample := make([][]float64, size)
	for i := 0; i < size; i++ {
		sample[i] = embeddings[perm[i]]
	}
	return sample
}

func buildIsolationTree(rows [][]float64, depth, maxDepth int, rng *rand.Rand) *isolationNode {
	if len(rows) <= 1 || depth >= maxDepth {
		return &isolationNode{size: len(rows)}
	}

	dim := rng.Intn(len(rows[0]))
	lo, hi := rows[0][dim], rows[0][dim]
	for _, row := range rows[1:] {
		if row[dim] < lo {
			lo = row[dim]
		}
		if row[dim] > hi {
			hi = row[dim]
		}
	}
	if lo == hi {
		return &isolationNode{size: len(rows)}
	}

	split := lo + rng.Float64()*(hi-lo)
	var left, right [][]float64
	for _, row := range rows {
		if row[dim] < split {
			left = append(left, row)
		} else {
			right = append(right, row)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &isolationNode{size: len(rows)}
	}
	return &isolationNode{
		splitDim:   dim,
		splitValue: split,
		left:       buildIsolationTree(left, depth+1, maxDepth, rng),
		right:      buildIsolationTree(right, depth+1, maxDepth, rng),
		size:       len(rows),
	}
}

func pathLength(node *isolationNode, vec []float64, depth int) float64 {
	if node.left == nil {
		return float64(depth) + averagePathLength(node.size)
	}
	if vec[node.splitDim] < node.splitValue {
		return pathLength(node.left, vec, depth+1)
	}
	return pathLength(node.right, vec, depth+1)
}

// averagePathLength is the expected path length of an unsuccessful BST
// search over n points, the standard normalizer for isolation scores.
func averagePathLength(n int) float64 {
	if n <= 1 {
		return 0
	}
	fn := float64(n)
	const eulerMascheroni = 0.5772156649
	return 2*(math.Log(fn-1)+eulerMascheroni) - 2*(fn-1)/fn
}
