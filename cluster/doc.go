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


// Package cluster partitions statement embeddings into topic clusters.
//
// The Engine supports two strategies and picks between them automatically
// by corpus size:
//   - a partition method (seeded k-means++ with a silhouette search over k)
//     for small corpora, where density estimation is unreliable
//   - a density method (neighborhood expansion with an adaptive minimum
//     cluster size) for larger corpora, which additionally marks statements
//     that fit no cluster as noise
//
// All randomized steps use a fixed seed, so identical input always produces
// identical output.
package cluster
