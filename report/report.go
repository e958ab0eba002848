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
	"time"

	"github.com/poiesic/semscan/anomaly"
	"github.com/poiesic/semscan/core"
)

// Report aggregates everything an analysis run produced.
type Report struct {
	SourcePath  string
	GeneratedAt time.Time
	Statements  []core.Statement
	Clusters    *core.ClusterResult
	Statistics  *core.Statistics
	Scoring     *anomaly.Result
	Pairs       []core.SimilarPair
}

// Summary holds the headline counts for the closing section.
type Summary struct {
	Statements     int `json:"statements"`
	Files          int `json:"files"`
	Clusters       int `json:"clusters"`
	Anomalies      int `json:"anomalies"`
	HighSeverity   int `json:"high_severity"`
	DuplicatePairs int `json:"duplicate_pairs"`
}

// Summarize computes the headline counts.
func (r *Report) Summarize() Summary {
	s := Summary{
		DuplicatePairs: len(r.Pairs),
	}
	if r.Statistics != nil {
		s.Statements = r.Statistics.TotalStatements
		s.Files = r.Statistics.TotalFiles
	}
	if r.Clusters != nil {
		s.Clusters = r.Clusters.NClusters
	}
	if r.Scoring != nil {
		s.Anomalies = len(r.Scoring.Anomalies)
		for _, a := range r.Scoring.Anomalies {
			if anomaly.ClassifySeverity(a.Score, len(a.FlaggedBy)) == core.SeverityHigh {
				s.HighSeverity++
			}
		}
	}
	return s
}
