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
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/poiesic/semscan/core"
)

// agreementBonus is added to a statement's combined score when enough
// detectors flag it independently.
const agreementBonus = 0.2

// noiseThreshold separates the two values binary detectors emit.
const noiseThreshold = 0.5

// Result carries everything the scoring stage produced: raw per-detector
// scores, the thresholds that calibrated them, the combined score vector
// and the ranked anomaly list.
type Result struct {
	// DetectorScores maps detector name to its normalized score vector.
	DetectorScores map[string][]float64

	// Thresholds maps detector name to its flagging threshold.
	Thresholds map[string]float64

	// Combined is the per-statement score after weighting and the
	// agreement bonus, clipped to [0, 1].
	Combined []float64

	// Threshold is the decision cutoff applied to Combined.
	Threshold float64

	// Anomalies lists flagged statements, highest score first.
	Anomalies []core.Anomaly
}

// Scorer runs the detector suite over a corpus and fuses the scores
// according to its configuration.
type Scorer struct {
	config    *Config
	isolation *GlobalIsolation
	density   *LocalDensity
	noise     *ClusterNoise
	centroid  *CentroidDistance
	logger    *slog.Logger
}

// ScorerOption is a functional option for configuring a Scorer.
type ScorerOption func(*Scorer)

// WithLogger sets the logger for the scorer.
func WithLogger(logger *slog.Logger) ScorerOption {
	return func(s *Scorer) {
		if logger != nil {
			s.logger = logger.With("component", "anomaly")
		}
	}
}

// NewScorer creates a Scorer from a validated configuration.
func NewScorer(cfg *Config, opts ...ScorerOption) (*Scorer, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Scorer{
		config:    cfg,
		isolation: NewGlobalIsolation(cfg.EstimatorCount),
		density:   NewLocalDensity(cfg.NeighborCount),
		noise:     NewClusterNoise(),
		centroid:  NewCentroidDistance(),
		logger:    slog.Default().With("component", "anomaly"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Score runs every detector, calibrates thresholds from the configured
// contamination and returns the fused result. The clusters argument must
// come from the same embedding matrix.
func (s *Scorer) Score(embeddings [][]float64, clusters *core.ClusterResult) (*Result, error) {
	if err := core.ValidateMatrix(embeddings, len(embeddings)); err != nil {
		return nil, err
	}
	if clusters == nil {
		return nil, ErrClusterResultRequired
	}

	detectors := []Detector{s.isolation, s.density, s.noise, s.centroid}
	scores := make(map[string][]float64, len(detectors))
	thresholds := make(map[string]float64, len(detectors))
	flagPercentile := 1 - s.config.Contamination

	for _, det := range detectors {
		vec, err := det.Score(embeddings, clusters)
		if err != nil {
			return nil, fmt.Errorf("detector %s: %w", det.Name(), err)
		}
		if len(vec) != len(embeddings) {
			return nil, fmt.Errorf("detector %s: %w", det.Name(), ErrScoreLengthMismatch)
		}
		scores[det.Name()] = vec
		if det.Name() == string(MethodClusterNoise) {
			thresholds[det.Name()] = noiseThreshold
		} else {
			thresholds[det.Name()] = percentile(vec, flagPercentile)
		}
	}

	combined, threshold := s.combine(scores, thresholds)

	result := &Result{
		DetectorScores: scores,
		Thresholds:     thresholds,
		Combined:       combined,
		Threshold:      threshold,
	}
	result.Anomalies = s.collectAnomalies(result, clusters)

	s.logger.Debug("scored corpus",
		"statements", len(embeddings),
		"method", s.config.Method,
		"threshold", threshold,
		"anomalies", len(result.Anomalies))
	return result, nil
}

// combine fuses the raw detector scores into the decision vector and
// picks the cutoff for it.
func (s *Scorer) combine(scores map[string][]float64, thresholds map[string]float64) ([]float64, float64) {
	if s.config.Method != MethodEnsemble {
		name := string(s.config.Method)
		vec := scores[name]
		combined := make([]float64, len(vec))
		copy(combined, vec)
		return combined, thresholds[name]
	}

	isolation := scores[string(MethodGlobalIsolation)]
	density := scores[string(MethodLocalDensity)]
	noise := scores[string(MethodClusterNoise)]

	weights := s.config.EnsembleWeights
	total := weights[0] + weights[1] + weights[2]
	for i := range weights {
		weights[i] /= total
	}

	combined := make([]float64, len(isolation))
	for i := range combined {
		score := weights[0]*isolation[i] + weights[1]*density[i] + weights[2]*noise[i]

		votes := 0
		if isolation[i] >= thresholds[string(MethodGlobalIsolation)] {
			votes++
		}
		if density[i] >= thresholds[string(MethodLocalDensity)] {
			votes++
		}
		if noise[i] >= thresholds[string(MethodClusterNoise)] {
			votes++
		}
		if votes >= s.config.MinMethodsAgree {
			score += agreementBonus
		}
		combined[i] = clip01(score)
	}
	return combined, percentile(combined, 1-s.config.Contamination)
}

// collectAnomalies gathers statements whose combined score reached the
// decision threshold, ranked highest first.
func (s *Scorer) collectAnomalies(r *Result, clusters *core.ClusterResult) []core.Anomaly {
	var anomalies []core.Anomaly
	for i, score := range r.Combined {
		if score < r.Threshold {
			continue
		}
		flaggedBy := s.flaggedDetectors(r, i)
		anomalies = append(anomalies, core.Anomaly{
			StatementIndex: i,
			Score:          score,
			ClusterID:      clusters.Labels[i],
			Reason:         describeAnomaly(flaggedBy, s.config.Method),
			FlaggedBy:      flaggedBy,
			Scores: core.DetectorScores{
				GlobalIsolation:  r.DetectorScores[string(MethodGlobalIsolation)][i],
				LocalDensity:     r.DetectorScores[string(MethodLocalDensity)][i],
				ClusterNoise:     r.DetectorScores[string(MethodClusterNoise)][i],
				CentroidDistance: r.DetectorScores[NameCentroidDistance][i],
			},
		})
	}

	sort.SliceStable(anomalies, func(a, b int) bool {
		return anomalies[a].Score > anomalies[b].Score
	})
	for i := range anomalies {
		anomalies[i].Rank = i + 1
	}
	return anomalies
}

// flaggedDetectors lists the voting detectors whose raw score reached
// their own threshold for statement i. The agreement bonus never enters
// here; this reflects independent detector opinion only.
func (s *Scorer) flaggedDetectors(r *Result, i int) []string {
	var flagged []string
	for _, name := range []string{
		string(MethodGlobalIsolation),
		string(MethodLocalDensity),
		string(MethodClusterNoise),
	} {
		if r.DetectorScores[name][i] >= r.Thresholds[name] {
			flagged = append(flagged, name)
		}
	}
	return flagged
}

func describeAnomaly(flaggedBy []string, method Method) string {
	if len(flaggedBy) == 0 {
		return fmt.Sprintf("combined score above %s threshold", method)
	}
	return "flagged by " + strings.Join(flaggedBy, ", ")
}

// ClassifySeverity grades an anomaly by its adjusted score and how many
// detectors agreed on it.
func ClassifySeverity(score float64, agreement int) core.Severity {
	switch {
	case score > 0.8 || agreement >= 3:
		return core.SeverityHigh
	case score > 0.6 || agreement >= 2:
		return core.SeverityMedium
	default:
		return core.SeverityLow
	}
}
