// Package mock provides a test double implementation of ai.Embedder.
//
// The mock allows tests to run without an embedding service and enables
// controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Default behavior: deterministic vectors from the text hash
//	mockEmbedder := mock.NewMockEmbedder()
//	vec, err := mockEmbedder.EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	mockEmbedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return []float32{0.1, 0.2, 0.3}, nil
//	}
//
//	// Check call counts
//	count := mockEmbedder.CallCount()
package mock
