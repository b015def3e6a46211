// Package pipeline assembles the answering pipeline from configuration:
// embedder, vector driver, generator, retriever, and composer, constructed
// through the provider factory packages and torn down together.
package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/neuradynamics/pragya/pkg/chunker"
	"github.com/neuradynamics/pragya/pkg/config"
	"github.com/neuradynamics/pragya/pkg/embeddings"
	embeddingutils "github.com/neuradynamics/pragya/pkg/embeddings/utils"
	"github.com/neuradynamics/pragya/pkg/eval"
	"github.com/neuradynamics/pragya/pkg/llm"
	llmutils "github.com/neuradynamics/pragya/pkg/llm/utils"
	"github.com/neuradynamics/pragya/pkg/rag"
	"github.com/neuradynamics/pragya/pkg/vector"
	vectorutils "github.com/neuradynamics/pragya/pkg/vector/utils"
)

// Pipeline holds the assembled components sharing one store handle.
type Pipeline struct {
	Embedder  embeddings.Embedder
	Driver    vector.Driver
	Generator llm.Generator

	Ingestor  *rag.Ingestor
	Retriever *rag.Retriever
	Composer  *rag.Composer
	Harness   *eval.Harness
}

// Options control which components are constructed.
type Options struct {
	// SkipGenerator builds only the embed/store side (ingest, search).
	SkipGenerator bool
}

// Build constructs the pipeline from the effective config.
func Build(ctx context.Context, cfg *config.Config, opts Options, logger *zap.Logger) (*Pipeline, error) {
	embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: cfg.Embedding.Provider,
		TargetURL:    cfg.Embedding.Target,
		Model:        cfg.Embedding.Model,
	})
	if err != nil {
		return nil, err
	}

	driver, err := vectorutils.NewVectorDriver(ctx, &vectorutils.NewVectorDriverOpts{
		ProviderType: cfg.VectorStore.Provider,
		DBPath:       cfg.VectorStore.Path,
		TargetURL:    cfg.VectorStore.Target,
		Dimensions:   cfg.Embedding.Dimensions,
		Logger:       logger,
	})
	if err != nil {
		embedder.Close()
		return nil, err
	}

	p := &Pipeline{
		Embedder: embedder,
		Driver:   driver,
	}

	ck := chunker.New(chunker.Config{
		MaxLength: cfg.Chunking.MaxLength,
		Overlap:   cfg.Chunking.Overlap,
	})
	p.Ingestor = rag.NewIngestor(ck, embedder, driver, logger)
	p.Retriever = rag.NewRetriever(embedder, driver, cfg.Retrieval.TopK, logger)

	if opts.SkipGenerator {
		return p, nil
	}

	generator, err := llmutils.NewGenerator(&llmutils.NewGeneratorOpts{
		ProviderType: cfg.Generation.Provider,
		TargetURL:    cfg.Generation.Target,
		Model:        cfg.Generation.Model,
	})
	if err != nil {
		p.Close()
		return nil, err
	}

	p.Generator = generator
	p.Composer = rag.NewComposer(p.Retriever, generator, logger)
	p.Harness = eval.NewHarness(p.Composer, logger)

	return p, nil
}

// Close tears down every constructed component.
func (p *Pipeline) Close() {
	if p.Generator != nil {
		p.Generator.Close()
	}
	if p.Driver != nil {
		p.Driver.Close()
	}
	if p.Embedder != nil {
		p.Embedder.Close()
	}
}
