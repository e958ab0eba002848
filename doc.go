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


// Package semscan analyzes documentation corpora through their embedding
// vectors: it clusters statements into topics, scores outliers with an
// ensemble of detectors, finds near-duplicate statements across files and
// derives corpus statistics.
//
// The top-level Analyzer ties the stages together:
//
//	analyzer := semscan.NewAnalyzer()
//	rep, err := analyzer.Analyze(statements, vectors)
//
// Statements come from the ingest package, vectors from an ai.Embedder
// (cached through storage.EmbeddingCache). Results render through the
// report package. Given the same statements and vectors, every stage is
// deterministic.
package semscan
