package rag

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/neuradynamics/pragya/pkg/chunker"
	"github.com/neuradynamics/pragya/pkg/embeddings"
	"github.com/neuradynamics/pragya/pkg/vector"
)

// Progress is invoked after each chunk is embedded.
type Progress func(done, total int)

// Ingestor rebuilds the vector store from a source document.
type Ingestor struct {
	chunker  *chunker.Chunker
	embedder embeddings.Embedder
	driver   vector.Driver
	logger   *zap.Logger
}

// NewIngestor creates an ingestor over the given chunker, embedder, and store.
func NewIngestor(ck *chunker.Chunker, embedder embeddings.Embedder, driver vector.Driver, logger *zap.Logger) *Ingestor {
	return &Ingestor{
		chunker:  ck,
		embedder: embedder,
		driver:   driver,
		logger:   logger,
	}
}

// Ingest loads the document at path and rebuilds the store from it.
//
// Ingestion is always a full rebuild: the store is emptied before any new
// chunk is written, so stale embeddings never coexist with new ones. A
// failure mid-ingestion leaves an empty or partially filled store, never a
// mix of old and new; callers recover by re-running ingestion.
//
// The progress callback may be nil. Returns the number of chunks written.
func (in *Ingestor) Ingest(ctx context.Context, path string, progress Progress) (int, error) {
	if err := in.driver.Reset(ctx); err != nil {
		return 0, fmt.Errorf("resetting store: %w", err)
	}

	doc, err := LoadDocument(path)
	if err != nil {
		return 0, err
	}

	chunks := in.chunker.Split(doc.Text, doc.Source)
	if len(chunks) == 0 {
		in.logger.Warn("document produced no chunks",
			zap.String("path", path),
		)
		return 0, nil
	}

	in.logger.Info("ingesting document",
		zap.String("source", doc.Source),
		zap.Int("chunks", len(chunks)),
	)

	docs := make([]vector.Document, 0, len(chunks))
	for i, ch := range chunks {
		embedding, err := in.embedder.Embed(ctx, ch.Text)
		if err != nil {
			return 0, fmt.Errorf("embedding chunk %d: %w", ch.Seq, err)
		}

		docs = append(docs, vector.Document{
			ID:        fmt.Sprintf("%s:%d", ch.Source, ch.Seq),
			Text:      ch.Text,
			Source:    ch.Source,
			Seq:       ch.Seq,
			Embedding: embedding,
		})

		if progress != nil {
			progress(i+1, len(chunks))
		}
	}

	if err := in.driver.Add(ctx, docs); err != nil {
		return 0, fmt.Errorf("writing chunks: %w", err)
	}

	in.logger.Info("ingestion complete",
		zap.String("source", doc.Source),
		zap.Int("chunks", len(docs)),
	)

	return len(docs), nil
}
