// Package ingestcmder provides the ingest command that rebuilds the vector
// store from the policy document.
package ingestcmder

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/neuradynamics/pragya/pkg/cliui"
	"github.com/neuradynamics/pragya/pkg/config"
	"github.com/neuradynamics/pragya/pkg/logger"
	"github.com/neuradynamics/pragya/pkg/pipeline"
)

type ingestCommander struct {
	document        string
	chunkMaxLength  int
	chunkOverlap    int
	vectorProvider  string
	vectorPath      string
	vectorTarget    string
	embeddingProv   string
	embeddingTarget string
	embeddingModel  string
	embeddingDims   uint

	cfg    *config.Config
	debug  bool
	logger *zap.Logger
}

const ingestLongDesc string = `Rebuild the vector store from the policy document.

Ingestion is always a full rebuild: the existing store is emptied, the
document is chunked with the configured parameters, every chunk is embedded,
and the (chunk, vector) pairs are written back. Stale embeddings never
coexist with new ones, so change the document or chunking parameters freely
and re-run.

The embedding model set here must stay identical at query time; distances
are meaningless across embedding spaces.

Examples:
  pragya ingest
  pragya ingest --document data/policy.txt
  pragya ingest --chunk-max-length 500 --chunk-overlap 100
  pragya ingest --vector-store-provider qdrant --vector-store-target localhost:6334`

const ingestShortDesc string = "Chunk and embed the policy document"

var ingestFlags = []string{
	config.FlagDocument,
	config.FlagChunkMaxLength,
	config.FlagChunkOverlap,
	config.FlagVectorStoreProv,
	config.FlagVectorStorePath,
	config.FlagVectorStoreTgt,
	config.FlagEmbeddingProv,
	config.FlagEmbeddingTgt,
	config.FlagEmbeddingModel,
	config.FlagEmbeddingDims,
}

func NewIngestCmd() *cobra.Command {
	cmder := &ingestCommander{}

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: ingestShortDesc,
		Long:  ingestLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.DefaultFlagSet(), ingestFlags)
			cmder.cfg = config.ConfigFromViper(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			return cmder.run()
		},
	}

	fs := config.DefaultFlagSet()
	config.AddStringFlag(cmd, fs, config.FlagDocument, &cmder.document)
	config.AddIntFlag(cmd, fs, config.FlagChunkMaxLength, &cmder.chunkMaxLength)
	config.AddIntFlag(cmd, fs, config.FlagChunkOverlap, &cmder.chunkOverlap)
	config.AddStringFlag(cmd, fs, config.FlagVectorStoreProv, &cmder.vectorProvider)
	config.AddStringFlag(cmd, fs, config.FlagVectorStorePath, &cmder.vectorPath)
	config.AddStringFlag(cmd, fs, config.FlagVectorStoreTgt, &cmder.vectorTarget)
	config.AddStringFlag(cmd, fs, config.FlagEmbeddingProv, &cmder.embeddingProv)
	config.AddStringFlag(cmd, fs, config.FlagEmbeddingTgt, &cmder.embeddingTarget)
	config.AddStringFlag(cmd, fs, config.FlagEmbeddingModel, &cmder.embeddingModel)
	config.AddUintFlag(cmd, fs, config.FlagEmbeddingDims, &cmder.embeddingDims)

	return cmd
}

func (c *ingestCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	ctx := context.Background()

	var p *pipeline.Pipeline
	err := cliui.Step(os.Stdout, "Connecting to embedder and vector store", func() error {
		var err error
		p, err = pipeline.Build(ctx, c.cfg, pipeline.Options{SkipGenerator: true}, c.logger)
		return err
	})
	if err != nil {
		return err
	}
	defer p.Close()

	fmt.Printf("\n  %s %s\n\n",
		cliui.KeyStyle.Render("Document:"),
		cliui.ValueStyle.Render(c.cfg.Document.Path),
	)

	var bar *progressbar.ProgressBar
	start := time.Now()

	count, err := p.Ingestor.Ingest(ctx, c.cfg.Document.Path, func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("Embedding chunks"),
				progressbar.OptionSetWriter(os.Stdout),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}
		_ = bar.Set(done)
	})
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("  %s Ingested %s chunks %s\n\n",
		cliui.SuccessMark,
		cliui.KeyStyle.Render(fmt.Sprintf("%d", count)),
		cliui.DimStyle.Render(fmt.Sprintf("(%s)", cliui.FormatDuration(time.Since(start)))),
	)

	return nil
}
