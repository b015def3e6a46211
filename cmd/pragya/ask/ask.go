// Package askcmder provides the ask command for single-question answering.
package askcmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/neuradynamics/pragya/pkg/cliui"
	"github.com/neuradynamics/pragya/pkg/config"
	"github.com/neuradynamics/pragya/pkg/logger"
	"github.com/neuradynamics/pragya/pkg/pipeline"
	"github.com/neuradynamics/pragya/pkg/rag"
	"github.com/neuradynamics/pragya/pkg/utils"
)

type askCommander struct {
	question    string
	topK        int
	showSources bool
	raw         bool

	vectorProvider  string
	vectorPath      string
	vectorTarget    string
	embeddingProv   string
	embeddingTarget string
	embeddingModel  string
	embeddingDims   uint
	generationProv  string
	generationTgt   string
	generationModel string

	cfg    *config.Config
	debug  bool
	logger *zap.Logger
}

const askLongDesc string = `Ask a single question against the ingested policy document.

The question is embedded, the closest chunks are retrieved from the vector
store, and the generation model answers strictly from that context. When the
document does not cover the question, the agent returns a fixed refusal
sentence instead of guessing.

Run "pragya ingest" first to populate the store.

Examples:
  pragya ask "What is the policy on web scraping?"
  pragya ask "How long is support chat data retained?" --sources
  pragya ask "What is the refund policy?" --top-k 5`

const askShortDesc string = "Ask a question about the policy document"

var askFlags = []string{
	config.FlagTopK,
	config.FlagVectorStoreProv,
	config.FlagVectorStorePath,
	config.FlagVectorStoreTgt,
	config.FlagEmbeddingProv,
	config.FlagEmbeddingTgt,
	config.FlagEmbeddingModel,
	config.FlagEmbeddingDims,
	config.FlagGenerationProv,
	config.FlagGenerationTgt,
	config.FlagGenerationModel,
}

func NewAskCmd() *cobra.Command {
	cmder := &askCommander{}

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: askShortDesc,
		Long:  askLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.DefaultFlagSet(), askFlags)
			cmder.cfg = config.ConfigFromViper(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.question = args[0]

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			return cmder.run()
		},
	}

	fs := config.DefaultFlagSet()
	config.AddIntFlag(cmd, fs, config.FlagTopK, &cmder.topK)
	config.AddStringFlag(cmd, fs, config.FlagVectorStoreProv, &cmder.vectorProvider)
	config.AddStringFlag(cmd, fs, config.FlagVectorStorePath, &cmder.vectorPath)
	config.AddStringFlag(cmd, fs, config.FlagVectorStoreTgt, &cmder.vectorTarget)
	config.AddStringFlag(cmd, fs, config.FlagEmbeddingProv, &cmder.embeddingProv)
	config.AddStringFlag(cmd, fs, config.FlagEmbeddingTgt, &cmder.embeddingTarget)
	config.AddStringFlag(cmd, fs, config.FlagEmbeddingModel, &cmder.embeddingModel)
	config.AddUintFlag(cmd, fs, config.FlagEmbeddingDims, &cmder.embeddingDims)
	config.AddStringFlag(cmd, fs, config.FlagGenerationProv, &cmder.generationProv)
	config.AddStringFlag(cmd, fs, config.FlagGenerationTgt, &cmder.generationTgt)
	config.AddStringFlag(cmd, fs, config.FlagGenerationModel, &cmder.generationModel)

	cmd.Flags().BoolVarP(&cmder.showSources, "sources", "s", false, "Show the retrieved chunks backing the answer")
	cmd.Flags().BoolVar(&cmder.raw, "raw", false, "Print the raw answer without markdown rendering")

	return cmd
}

func (c *askCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	ctx := context.Background()

	p, err := pipeline.Build(ctx, c.cfg, pipeline.Options{}, c.logger)
	if err != nil {
		return err
	}
	defer p.Close()

	record, err := p.Composer.Answer(ctx, c.question)
	if err != nil {
		return fmt.Errorf("answering question: %w", err)
	}

	PrintAnswer(record, c.raw)

	if c.showSources {
		PrintSources(record)
	}

	return nil
}

// PrintAnswer renders an answer for terminal display. Shared with the chat
// command so both surfaces look identical.
func PrintAnswer(record *rag.AnswerRecord, raw bool) {
	if raw {
		fmt.Println(record.Answer)
		return
	}

	rendered, err := cliui.RenderMarkdown(record.Answer)
	if err != nil {
		fmt.Println(record.Answer)
		return
	}
	fmt.Print(rendered)
}

// PrintSources lists the retrieved chunks backing an answer.
func PrintSources(record *rag.AnswerRecord) {
	if len(record.Results) == 0 {
		fmt.Printf("  %s\n\n", cliui.DimStyle.Render("(no chunks retrieved)"))
		return
	}

	fmt.Printf("  %s\n", cliui.KeyStyle.Render("Sources:"))
	for _, r := range record.Results {
		fmt.Printf("  %s %s %s\n",
			cliui.SourceStyle.Render(fmt.Sprintf("%s#%d", r.Source, r.Seq)),
			cliui.DimStyle.Render(fmt.Sprintf("score: %.4f", r.Score)),
			cliui.ValueStyle.Render(utils.Truncate(r.Text, 80)),
		)
	}
	fmt.Println()
}
