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

import "fmt"

// ValidateStatement validates a Statement according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - SourceFile must not be empty
//
// NOT validated:
//   - LineNumber (zero is valid for statements without a line locator)
//   - Context (optional, reporting only)
func ValidateStatement(stmt *Statement) error {
	if stmt == nil {
		return fmt.Errorf("%w: statement is nil", ErrInvalidStatement)
	}

	if stmt.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidStatement, ErrEmptyText)
	}

	if stmt.SourceFile == "" {
		return fmt.Errorf("%w: %w", ErrInvalidStatement, ErrEmptySourceFile)
	}

	return nil
}

// ValidateMatrix checks an embedding matrix against its statement list.
//
// Validation rules:
//   - the matrix must have at least one row
//   - the row count must equal the statement count
//   - every row must have the same, non-zero dimension
//
// A shape violation is the only condition that aborts an analysis run;
// every other degeneracy downstream is absorbed with a deterministic fallback.
func ValidateMatrix(embeddings [][]float64, statementCount int) error {
	if len(embeddings) == 0 {
		return ErrEmptyMatrix
	}

	if len(embeddings) != statementCount {
		return fmt.Errorf("%w: %d rows, %d statements", ErrStatementMismatch, len(embeddings), statementCount)
	}

	dim := len(embeddings[0])
	if dim == 0 {
		return fmt.Errorf("%w: row 0 has zero dimension", ErrRaggedMatrix)
	}
	for i, row := range embeddings {
		if len(row) != dim {
			return fmt.Errorf("%w: row %d has dimension %d, expected %d", ErrRaggedMatrix, i, len(row), dim)
		}
	}

	return nil
}
