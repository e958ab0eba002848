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


// Package ai defines the embedding abstraction the analysis pipeline
// depends on.
//
// The pipeline itself never talks to a model server; it consumes the
// Embedder interface. Two implementations ship with the module:
//
//   - ai/openai: production implementation for OpenAI-compatible APIs
//     (Ollama, LocalAI, vLLM, the hosted OpenAI service)
//   - ai/mock: deterministic test double, no network required
//
// Constructors in the implementation packages return the interface type;
// mock constructors return the concrete type so tests can inject behavior
// and assert on call counts.
package ai
