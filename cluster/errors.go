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


package cluster

import "errors"

var (
	// ErrInvalidMethod is returned when an unrecognized clustering method
	// is requested.
	ErrInvalidMethod = errors.New("invalid clustering method")

	// ErrInvalidClusterCount is returned when a non-positive cluster count
	// is requested.
	ErrInvalidClusterCount = errors.New("cluster count must be positive")

	// ErrInvalidMinClusterSize is returned when the minimum cluster size is
	// below two.
	ErrInvalidMinClusterSize = errors.New("minimum cluster size must be at least 2")

	// errDegenerate marks a candidate cluster count whose validity scoring
	// failed. It is recovered internally by skipping the candidate and is
	// never surfaced to callers.
	errDegenerate = errors.New("degenerate clustering candidate")
)
