// Package embeddings
package embeddings

import "context"

// Embedder provides text embedding capabilities.
//
// The same model identifier must be used at ingestion and query time: a
// mismatch silently degrades relevance because distances are meaningless
// across embedding spaces.
type Embedder interface {
	// Embed converts text into a vector embedding.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Close releases any resources held by the embedder.
	Close() error
}
