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


// Package storage defines the persistence abstractions for the analysis
// pipeline and the binary serialization used by their implementations.
//
// The pipeline's only persistent state is the embedding cache: embedding
// a large corpus is the slowest and most expensive step, so vectors are
// cached keyed by model and statement content. Re-running an analysis
// after editing a few files only embeds the statements that changed.
//
// The storage/badger sub-package provides the production implementation
// backed by BadgerDB, plus an in-memory variant for tests.
package storage
