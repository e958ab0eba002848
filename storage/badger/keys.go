package badger

import (
	"fmt"

	"github.com/poiesic/semscan/core"
)

// Key prefixes for different data types
const (
	embeddingPrefix = "embvec"
)

// makeEmbeddingKey generates a key for a cached embedding. The key is
// derived from the model and statement content, so the same statement
// embedded under a different model occupies a different slot.
func makeEmbeddingKey(model, text string) []byte {
	id := core.IDFromContent(model + "\x00" + text)
	return []byte(fmt.Sprintf("%s:%d", embeddingPrefix, id))
}
