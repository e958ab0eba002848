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


// Package ingest turns a documentation tree into an embedding matrix.
//
// It has two halves. The parser extracts statements from markdown, plain
// text and JSON files: paragraphs for prose, string values for JSON,
// with code blocks, headers and structural lines filtered out. The
// pipeline then acquires one embedding per statement, consulting the
// embedding cache first and batching cache misses through a bounded
// worker pool with retry.
package ingest
