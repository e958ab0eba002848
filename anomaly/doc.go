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


// Package anomaly scores statements for semantic outlierness.
//
// Four detectors implement the Detector capability over the shared
// embedding matrix:
//   - global-isolation: an isolation ensemble; statements that take fewer
//     random splits to isolate score higher
//   - local-density: a nearest-neighbor density ratio under the cosine
//     metric, suited to high-dimensional embeddings
//   - cluster-noise: binary, set for statements the clustering marked as noise
//   - centroid-distance: Euclidean distance to the assigned cluster centroid
//
// Every detector emits a score vector normalized to [0, 1]. The Scorer fuses
// the vectors into one ranked, thresholded anomaly list, either by passing a
// single detector through or by the weighted ensemble with agreement voting.
package anomaly
