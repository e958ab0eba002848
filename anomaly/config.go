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

import "errors"

// Method selects the score combination policy.
type Method string

const (
	// MethodGlobalIsolation passes the isolation-ensemble scores through.
	MethodGlobalIsolation Method = "global-isolation"
	// MethodLocalDensity passes the neighbor-density scores through.
	MethodLocalDensity Method = "local-density"
	// MethodClusterNoise passes the binary noise scores through.
	MethodClusterNoise Method = "cluster-noise"
	// MethodEnsemble fuses the three detectors with weighted averaging and
	// agreement voting.
	MethodEnsemble Method = "ensemble"
)

// Config holds outlier scoring configuration.
type Config struct {
	// Method is the combination policy. Default: MethodEnsemble.
	Method Method

	// Contamination is the expected fraction of anomalous statements,
	// in (0, 1). It calibrates every percentile threshold. Default: 0.05.
	Contamination float64

	// EnsembleWeights weight the global-isolation, local-density and
	// cluster-noise scores, in that order. They are normalized to sum to
	// one before combining. Default: [0.4, 0.4, 0.2].
	EnsembleWeights [3]float64

	// MinMethodsAgree is how many detectors must flag a statement before
	// the agreement bonus applies, in [0, 3]. Default: 2.
	MinMethodsAgree int

	// NeighborCount is the neighborhood size for the local-density
	// detector. It is clamped to [2, N-1] per corpus. Default: 20.
	NeighborCount int

	// EstimatorCount is the number of trees in the isolation ensemble.
	// Default: 100.
	EstimatorCount int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithMethod sets the combination policy.
func WithMethod(method Method) ConfigOption {
	return func(c *Config) {
		c.Method = method
	}
}

// WithContamination sets the expected anomaly fraction.
func WithContamination(contamination float64) ConfigOption {
	return func(c *Config) {
		c.Contamination = contamination
	}
}

// WithEnsembleWeights sets the detector weights for the ensemble policy.
func WithEnsembleWeights(isolation, density, noise float64) ConfigOption {
	return func(c *Config) {
		c.EnsembleWeights = [3]float64{isolation, density, noise}
	}
}

// WithMinMethodsAgree sets the agreement-bonus vote requirement.
func WithMinMethodsAgree(count int) ConfigOption {
	return func(c *Config) {
		c.MinMethodsAgree = count
	}
}

// WithNeighborCount sets the local-density neighborhood size.
func WithNeighborCount(count int) ConfigOption {
	return func(c *Config) {
		c.NeighborCount = count
	}
}

// WithEstimatorCount sets the isolation-ensemble tree count.
func WithEstimatorCount(count int) ConfigOption {
	return func(c *Config) {
		c.EstimatorCount = count
	}
}

// DefaultConfig returns a Config with the default ensemble policy.
func DefaultConfig() *Config {
	return &Config{
		Method:          MethodEnsemble,
		Contamination:   0.05,
		EnsembleWeights: [3]float64{0.4, 0.4, 0.2},
		MinMethodsAgree: 2,
		NeighborCount:   20,
		EstimatorCount:  100,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options. This is the recommended way to create a Config.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks that the configuration is valid and complete.
// Out-of-range values are rejected here, before any scoring runs.
func (c *Config) Validate() error {
	switch c.Method {
	case MethodGlobalIsolation, MethodLocalDensity, MethodClusterNoise, MethodEnsemble:
	default:
		return errors.New("anomaly config: Method must be one of global-isolation, local-density, cluster-noise, ensemble")
	}
	if c.Contamination <= 0 || c.Contamination >= 1 {
		return errors.New("anomaly config: Contamination must be in (0, 1)")
	}
	var weightSum float64
	for _, w := range c.EnsembleWeights {
		if w < 0 {
			return errors.New("anomaly config: EnsembleWeights must be non-negative")
		}
		weightSum += w
	}
	if weightSum == 0 {
		return errors.New("anomaly config: EnsembleWeights must not all be zero")
	}
	if c.MinMethodsAgree < 0 || c.MinMethodsAgree > 3 {
		return errors.New("anomaly config: MinMethodsAgree must be between 0 and 3")
	}
	if c.NeighborCount < 2 {
		return errors.New("anomaly config: NeighborCount must be at least 2")
	}
	if c.EstimatorCount < 1 {
		return errors.New("anomaly config: EstimatorCount must be at least 1")
	}
	return nil
}
