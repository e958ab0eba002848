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

var (
	// ErrClusterResultRequired is returned when a detector that depends on
	// cluster assignments is run without them.
	ErrClusterResultRequired = errors.New("cluster result required")

	// ErrScoreLengthMismatch is returned when a detector produces a score
	// vector whose length does not match the statement count.
	ErrScoreLengthMismatch = errors.New("detector score length mismatch")
)
