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


package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorSerialization(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		vector := []float32{0.125, -3.5, 0, 1e6}
		data := MarshalVector(vector)
		got, err := UnmarshalVector(data)
		require.NoError(t, err)
		assert.Equal(t, vector, got)
	})

	t.Run("empty vector", func(t *testing.T) {
		data := MarshalVector(nil)
		got, err := UnmarshalVector(data)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("truncated data fails", func(t *testing.T) {
		data := MarshalVector([]float32{1, 2, 3})
		_, err := UnmarshalVector(data[:len(data)-2])
		require.ErrorIs(t, err, ErrSerializationFailed)
	})
}
