// Package vector provides interfaces and implementations for vector storage and retrieval.
package vector

import "context"

// Document represents a stored chunk with its embedding and metadata.
type Document struct {
	// ID is a unique identifier for the document.
	ID string

	// Text is the chunk text as emitted by the chunker.
	Text string

	// Source is the originating document name, e.g. "policy.txt".
	Source string

	// Seq is the zero-based position of the chunk within its source.
	Seq int

	// Embedding is the vector representation of the chunk text.
	Embedding []float32
}

// QueryResult represents a search result with its distance from the query.
type QueryResult struct {
	Document

	// Score is the distance between the query and the document
	// (lower = closer). Results are always ordered ascending by Score.
	Score float32
}

// Driver handles storage and retrieval of vector embeddings.
type Driver interface {
	// Add stores documents with their embeddings.
	// If a document with the same ID already exists, implementers should update
	// the document.
	Add(ctx context.Context, docs []Document) error

	// Query finds the topK closest documents to the given embedding,
	// ordered ascending by distance.
	Query(ctx context.Context, embedding []float32, topK int) ([]QueryResult, error)

	// Count reports the number of documents in the store.
	Count(ctx context.Context) (int, error)

	// Reset removes every document from the store, leaving it empty
	// and ready for a fresh Add.
	Reset(ctx context.Context) error

	// Close releases any resources held by the driver.
	Close() error
}
