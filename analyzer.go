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


package semscan

import (
	"log/slog"
	"time"

	"github.com/poiesic/semscan/anomaly"
	"github.com/poiesic/semscan/cluster"
	"github.com/poiesic/semscan/core"
	"github.com/poiesic/semscan/report"
	"github.com/poiesic/semscan/stats"
)

// Analyzer runs the analysis pipeline over an embedded corpus: topic
// clustering, outlier scoring, statistics and near-duplicate detection.
type Analyzer struct {
	clusterOpts []cluster.Option
	anomalyCfg  *anomaly.Config
	statsOpts   []stats.Option
	sourcePath  string
	logger      *slog.Logger
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithClusterOptions forwards options to the clustering engine.
func WithClusterOptions(opts ...cluster.Option) AnalyzerOption {
	return func(a *Analyzer) {
		a.clusterOpts = append(a.clusterOpts, opts...)
	}
}

// WithAnomalyConfig sets the outlier scoring configuration.
func WithAnomalyConfig(cfg *anomaly.Config) AnalyzerOption {
	return func(a *Analyzer) {
		a.anomalyCfg = cfg
	}
}

// WithStatsOptions forwards options to the statistics engine.
func WithStatsOptions(opts ...stats.Option) AnalyzerOption {
	return func(a *Analyzer) {
		a.statsOpts = append(a.statsOpts, opts...)
	}
}

// WithSourcePath records the scanned path in the report.
func WithSourcePath(path string) AnalyzerOption {
	return func(a *Analyzer) {
		a.sourcePath = path
	}
}

// WithLogger sets the logger for the analyzer and its stages.
func WithLogger(logger *slog.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAnalyzer creates an Analyzer with default settings.
func NewAnalyzer(opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		anomalyCfg: anomaly.DefaultConfig(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs the full pipeline. Row i of embeddings must belong to
// statements[i]; the same statements and vectors always produce the same
// report apart from the generation timestamp.
func (a *Analyzer) Analyze(statements []core.Statement, embeddings [][]float32) (*report.Report, error) {
	matrix := ToFloat64Matrix(embeddings)
	if err := core.ValidateMatrix(matrix, len(statements)); err != nil {
		return nil, err
	}

	engineOpts := append([]cluster.Option{cluster.WithLogger(a.logger)}, a.clusterOpts...)
	engine, err := cluster.NewEngine(engineOpts...)
	if err != nil {
		return nil, err
	}
	clusters, err := engine.Cluster(matrix)
	if err != nil {
		return nil, err
	}
	cluster.LabelClusters(statements, clusters)
	a.logger.Info("clustering complete",
		"statements", len(statements),
		"clusters", clusters.NClusters)

	scorer, err := anomaly.NewScorer(a.anomalyCfg, anomaly.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	scoring, err := scorer.Score(matrix, clusters)
	if err != nil {
		return nil, err
	}
	a.logger.Info("outlier scoring complete",
		"anomalies", len(scoring.Anomalies),
		"threshold", scoring.Threshold)

	statsEngine := stats.NewEngine(append([]stats.Option{stats.WithLogger(a.logger)}, a.statsOpts...)...)
	statistics, err := statsEngine.Compute(statements, matrix, clusters)
	if err != nil {
		return nil, err
	}
	pairs, err := statsEngine.SimilarPairs(statements, matrix)
	if err != nil {
		return nil, err
	}

	return &report.Report{
		SourcePath:  a.sourcePath,
		GeneratedAt: time.Now(),
		Statements:  statements,
		Clusters:    clusters,
		Statistics:  statistics,
		Scoring:     scoring,
		Pairs:       pairs,
	}, nil
}

// ToFloat64Matrix widens embedder output to the float64 matrix the
// analysis stages work in. Rows are copied, never aliased.
func ToFloat64Matrix(embeddings [][]float32) [][]float64 {
	matrix := make([][]float64, len(embeddings))
	for i, row := range embeddings {
		wide := make([]float64, len(row))
		for j, v := range row {
			wide[j] = float64(v)
		}
		matrix[i] = wide
	}
	return matrix
}
