// Package evaluatecmder provides the evaluate command for running the
// question battery and writing report artifacts.
package evaluatecmder

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/neuradynamics/pragya/pkg/cliui"
	"github.com/neuradynamics/pragya/pkg/config"
	"github.com/neuradynamics/pragya/pkg/eval"
	"github.com/neuradynamics/pragya/pkg/logger"
	"github.com/neuradynamics/pragya/pkg/pipeline"
	"github.com/neuradynamics/pragya/pkg/utils"
)

type evaluateCommander struct {
	casesPath string
	reportDir string

	topK            int
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

const evaluateLongDesc string = `Run the evaluation battery against the ingested policy document and write
report artifacts.

Each case sends its question through the full retrieval pipeline and records
the generated answer alongside the expected behavior and the sources that
backed it. A case that fails (gateway down, store unreachable) is recorded as
an ERROR row and the run continues.

Two artifacts are written to the report directory, overwriting any previous
run's output:

  evaluation_report.md    human-readable Markdown table
  evaluation_results.csv  structured export for spreadsheets

By default the built-in five-case battery runs; pass --cases to supply a
custom TOML case file instead.

Examples:
  pragya evaluate
  pragya evaluate --report-dir ./reports
  pragya evaluate --cases my_cases.toml`

const evaluateShortDesc string = "Run the evaluation battery and write reports"

var evaluateFlags = []string{
	config.FlagTopK,
	config.FlagReportDir,
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

func NewEvaluateCmd() *cobra.Command {
	cmder := &evaluateCommander{}

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: evaluateShortDesc,
		Long:  evaluateLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.DefaultFlagSet(), evaluateFlags)
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
	config.AddIntFlag(cmd, fs, config.FlagTopK, &cmder.topK)
	config.AddStringFlag(cmd, fs, config.FlagReportDir, &cmder.reportDir)
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

	cmd.Flags().StringVar(&cmder.casesPath, "cases", "", "Path to a custom TOML case file (defaults to the built-in battery)")

	return cmd
}

func (c *evaluateCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	ctx := context.Background()

	cases := eval.DefaultCases()
	if c.casesPath != "" {
		loaded, err := eval.LoadCases(c.casesPath)
		if err != nil {
			return fmt.Errorf("loading cases: %w", err)
		}
		cases = loaded
	}

	var p *pipeline.Pipeline
	err := cliui.Step(os.Stdout, "Connecting to embedder, vector store, and generator", func() error {
		var buildErr error
		p, buildErr = pipeline.Build(ctx, c.cfg, pipeline.Options{}, c.logger)
		return buildErr
	})
	if err != nil {
		return err
	}
	defer p.Close()

	fmt.Println()
	report, err := p.Harness.Run(ctx, cases, func(i, total int, ec eval.Case) {
		fmt.Printf("  %s %s\n",
			cliui.KeyStyle.Render(fmt.Sprintf("[%d/%d]", i+1, total)),
			utils.Truncate(ec.Question, 70),
		)
	})
	if err != nil {
		return err
	}

	mdPath, csvPath, err := report.Save(c.cfg.Eval.ReportDir)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("  %s Evaluation complete: %d cases\n", cliui.SuccessMark, len(report.Rows))
	fmt.Printf("  %s %s\n", cliui.DimStyle.Render("report:"), mdPath)
	fmt.Printf("  %s %s\n", cliui.DimStyle.Render("csv:   "), csvPath)

	return nil
}
