// Package rag implements the retrieval-augmented answering pipeline:
// document ingestion, nearest-neighbor retrieval, and closed-context
// answer composition.
package rag

import (
	"fmt"
	"os"
	"path/filepath"
)

// Document is the raw source text plus its source identifier.
type Document struct {
	// Text is the full UTF-8 document content.
	Text string

	// Source is the document's identifier, the base name of the file
	// it was loaded from.
	Source string
}

// LoadDocument reads a plain-text document from disk.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	return &Document{
		Text:   string(data),
		Source: filepath.Base(path),
	}, nil
}
