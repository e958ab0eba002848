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


package core

import "errors"

// Domain validation errors
var (
	// ErrEmptyMatrix indicates the embedding matrix has no rows.
	ErrEmptyMatrix = errors.New("embedding matrix is empty")

	// ErrStatementMismatch indicates the matrix row count differs from the
	// statement count.
	ErrStatementMismatch = errors.New("embedding row count does not match statement count")

	// ErrRaggedMatrix indicates matrix rows have differing dimensions.
	ErrRaggedMatrix = errors.New("embedding matrix rows have inconsistent dimensions")

	// ErrInvalidStatement indicates a Statement failed validation.
	ErrInvalidStatement = errors.New("invalid statement")

	// ErrEmptyText indicates the Text field is empty.
	ErrEmptyText = errors.New("statement text cannot be empty")

	// ErrEmptySourceFile indicates the SourceFile field is empty.
	ErrEmptySourceFile = errors.New("statement source file cannot be empty")
)
