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


package report

import (
	"encoding/json"
	"time"

	"github.com/poiesic/semscan/anomaly"
	"github.com/poiesic/semscan/core"
)

type jsonReport struct {
	Generated  time.Time       `json:"generated"`
	SourcePath string          `json:"source_path"`
	Summary    Summary         `json:"summary"`
	Statistics jsonStatistics  `json:"statistics"`
	Clusters   []jsonCluster   `json:"clusters"`
	Anomalies  []jsonAnomaly   `json:"anomalies"`
	Pairs      []jsonPair      `json:"near_duplicates"`
}

type jsonStatistics struct {
	TotalStatements int                 `json:"total_statements"`
	TotalFiles      int                 `json:"total_files"`
	PerFile         map[string]int      `json:"per_file"`
	Coverage        map[string][]int    `json:"coverage"`
	ClusterBalance  float64             `json:"cluster_balance"`
	SimilarityHist  []core.HistogramBin `json:"similarity_distribution"`
}

type jsonCluster struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Count   int      `json:"count"`
	Density float64  `json:"density"`
	Files   []string `json:"files"`
}

type jsonAnomaly struct {
	Rank      int                `json:"rank"`
	Location  string             `json:"location"`
	Text      string             `json:"text"`
	Score     float64            `json:"score"`
	Severity  core.Severity      `json:"severity"`
	ClusterID int                `json:"cluster_id"`
	Reason    string             `json:"reason"`
	FlaggedBy []string           `json:"flagged_by"`
	Scores    core.DetectorScores `json:"detector_scores"`
}

type jsonPair struct {
	LocationA  string  `json:"location_a"`
	LocationB  string  `json:"location_b"`
	TextA      string  `json:"text_a"`
	TextB      string  `json:"text_b"`
	Similarity float64 `json:"similarity"`
}

// RenderJSON produces the machine-readable report.
func RenderJSON(r *Report) ([]byte, error) {
	out := jsonReport{
		Generated:  r.GeneratedAt,
		SourcePath: r.SourcePath,
		Summary:    r.Summarize(),
		Statistics: jsonStatistics{
			TotalStatements: r.Statistics.TotalStatements,
			TotalFiles:      r.Statistics.TotalFiles,
			PerFile:         r.Statistics.PerFile,
			Coverage:        r.Statistics.Coverage,
			ClusterBalance:  r.Statistics.ClusterBalance,
			SimilarityHist:  r.Statistics.SimilarityHist,
		},
	}

	for _, id := range sortedClusterIDs(r.Statistics) {
		cs := r.Statistics.PerCluster[id]
		out.Clusters = append(out.Clusters, jsonCluster{
			ID:      cs.ClusterID,
			Name:    cs.Name,
			Count:   cs.Count,
			Density: cs.Density,
			Files:   cs.Files,
		})
	}

	if r.Scoring != nil {
		for _, a := range r.Scoring.Anomalies {
			stmt := r.Statements[a.StatementIndex]
			out.Anomalies = append(out.Anomalies, jsonAnomaly{
				Rank:      a.Rank,
				Location:  stmt.Location(),
				Text:      stmt.Text,
				Score:     a.Score,
				Severity:  anomaly.ClassifySeverity(a.Score, len(a.FlaggedBy)),
				ClusterID: a.ClusterID,
				Reason:    a.Reason,
				FlaggedBy: a.FlaggedBy,
				Scores:    a.Scores,
			})
		}
	}

	for _, p := range r.Pairs {
		a, b := r.Statements[p.IndexA], r.Statements[p.IndexB]
		out.Pairs = append(out.Pairs, jsonPair{
			LocationA:  a.Location(),
			LocationB:  b.Location(),
			TextA:      a.Text,
			TextB:      b.Text,
			Similarity: p.Similarity,
		})
	}

	return json.MarshalIndent(out, "", "  ")
}
