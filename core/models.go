package core

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// NoiseLabel is the cluster label assigned to statements that do not belong
// to any cluster with sufficient confidence.
const NoiseLabel = -1

// Statement is an atomic extracted text unit under analysis: a paragraph from
// a markdown or text document, or a string value from a JSON document.
type Statement struct {
	Text       string
	SourceFile string
	LineNumber int
	Context    string // Surrounding text, for reporting only
}

// Location returns the statement position in "file:line" form.
func (s *Statement) Location() string {
	return fmt.Sprintf("%s:%d", s.SourceFile, s.LineNumber)
}

// ClusterResult holds the output of clustering a statement corpus.
//
// Labels has one entry per statement; NoiseLabel marks statements outside
// every cluster. Centroids is indexed by cluster label and covers labels
// [0, NClusters). NoiseCentroid is the mean of the noise members and exists
// only as a distance fallback, never as a cluster of its own.
type ClusterResult struct {
	Labels        []int
	Centroids     [][]float64
	NClusters     int
	NoiseCentroid []float64
	ClusterNames  map[int]string
}

// ClusterIndices returns the statement indices assigned to a cluster,
// in ascending order.
func (cr *ClusterResult) ClusterIndices(clusterID int) []int {
	var indices []int
	for i, label := range cr.Labels {
		if label == clusterID {
			indices = append(indices, i)
		}
	}
	return indices
}

// ClusterSizes returns the member count per label, including the noise bucket.
func (cr *ClusterResult) ClusterSizes() map[int]int {
	sizes := make(map[int]int)
	for _, label := range cr.Labels {
		sizes[label]++
	}
	return sizes
}

// DetectorScores holds the per-detector anomaly scores for one statement.
// All values are in [0, 1]; higher means more anomalous. The four vectors are
// retained independently so a reader can see why a statement was flagged.
type DetectorScores struct {
	GlobalIsolation  float64
	LocalDensity     float64
	ClusterNoise     float64
	CentroidDistance float64
}

// Anomaly is a statement judged anomalous by the combined detector scores.
type Anomaly struct {
	StatementIndex int
	Score          float64 // Combined score in [0, 1]
	ClusterID      int
	Rank           int // 1-based position in the score-descending ordering
	Reason         string
	Scores         DetectorScores
	FlaggedBy      []string // Detectors whose own threshold the statement cleared
}

// Severity buckets an anomaly by combined score and detector agreement.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// ClusterStats describes one cluster of the corpus.
type ClusterStats struct {
	ClusterID int
	Name      string
	Count     int
	Density   float64 // Mean pairwise similarity among members; 1.0 for singletons
	Files     []string
}

// HistogramBin is one fixed-width bucket of the pairwise similarity histogram.
type HistogramBin struct {
	Label string // e.g. "0.7-0.8"
	Count int
}

// Statistics aggregates corpus-level measurements derived from a clustering.
type Statistics struct {
	TotalStatements int
	TotalFiles      int
	PerFile         map[string]int
	PerCluster      map[int]ClusterStats
	Coverage        map[string][]int // file -> sorted cluster labels covered (noise excluded)
	SimilarityHist  []HistogramBin
	ClusterBalance  float64 // Gini coefficient over cluster sizes: 0 balanced, 1 skewed
}

// SimilarPair is a pair of statements whose embeddings exceed a similarity
// threshold. IndexA is always the smaller statement index.
type SimilarPair struct {
	IndexA     int
	IndexB     int
	Similarity float64
}

// NewSimilarPair builds a SimilarPair with canonical index ordering.
func NewSimilarPair(a, b int, similarity float64) SimilarPair {
	if a > b {
		a, b = b, a
	}
	return SimilarPair{IndexA: a, IndexB: b, Similarity: similarity}
}

// SortedFileSet converts a file membership set into a deterministic slice.
func SortedFileSet(files map[string]struct{}) []string {
	out := make([]string, 0, len(files))
	for f := range files {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
