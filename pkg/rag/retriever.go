package rag

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/neuradynamics/pragya/pkg/embeddings"
	"github.com/neuradynamics/pragya/pkg/vector"
)

// DefaultTopK is the default number of chunks retrieved per question.
const DefaultTopK = 3

// Retriever embeds a question and finds the closest stored chunks.
//
// The embedder must be the same model used at ingestion time; distances are
// meaningless across embedding spaces, so a mismatch silently degrades
// relevance rather than failing loudly.
type Retriever struct {
	embedder embeddings.Embedder
	driver   vector.Driver
	topK     int
	logger   *zap.Logger
}

// NewRetriever creates a retriever. topK falls back to DefaultTopK when
// zero or negative.
func NewRetriever(embedder embeddings.Embedder, driver vector.Driver, topK int, logger *zap.Logger) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{
		embedder: embedder,
		driver:   driver,
		topK:     topK,
		logger:   logger,
	}
}

// Retrieve returns the topK chunks closest to the question, ordered
// ascending by distance. No relevance threshold is applied; poor matches
// are still returned and grounding is enforced downstream by the prompt.
func (r *Retriever) Retrieve(ctx context.Context, question string) ([]vector.QueryResult, error) {
	embedding, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}

	results, err := r.driver.Query(ctx, embedding, r.topK)
	if err != nil {
		return nil, fmt.Errorf("querying store: %w", err)
	}

	r.logger.Debug("retrieved chunks",
		zap.Int("results", len(results)),
		zap.Int("top_k", r.topK),
	)

	return results, nil
}
