// Package chatcmder provides the interactive chat command.
package chatcmder

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	askcmder "github.com/neuradynamics/pragya/cmd/pragya/ask"
	"github.com/neuradynamics/pragya/pkg/cliui"
	"github.com/neuradynamics/pragya/pkg/config"
	"github.com/neuradynamics/pragya/pkg/logger"
	"github.com/neuradynamics/pragya/pkg/pipeline"
)

type chatCommander struct {
	showSources bool
	raw         bool

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

const chatLongDesc string = `Start an interactive question-and-answer session against the ingested policy
document. Each question runs the full retrieval pipeline independently; there
is no conversational memory between turns.

Type "exit" or "quit" (or press Ctrl-D) to leave the session.`

const chatShortDesc string = "Chat interactively with the policy agent"

var chatFlags = []string{
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

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.DefaultFlagSet(), chatFlags)
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

	cmd.Flags().BoolVarP(&cmder.showSources, "sources", "s", false, "Show the retrieved chunks backing each answer")
	cmd.Flags().BoolVar(&cmder.raw, "raw", false, "Print raw answers without markdown rendering")

	return cmd
}

func (c *chatCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	ctx := context.Background()

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
	fmt.Printf("  %s\n", cliui.NameStyle.Render("Pragya Policy Agent"))
	fmt.Printf("  %s\n\n", cliui.DimStyle.Render(`Ask about the policy document. Type "exit" or "quit" to leave.`))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("%s ", cliui.KeyStyle.Render("you>"))
		if !scanner.Scan() {
			fmt.Println()
			break
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if isExit(question) {
			break
		}

		record, err := p.Composer.Answer(ctx, question)
		if err != nil {
			fmt.Printf("  %s %v\n\n", cliui.FailMark, err)
			continue
		}

		askcmder.PrintAnswer(record, c.raw)
		if c.showSources {
			askcmder.PrintSources(record)
		}
	}

	return scanner.Err()
}

// isExit reports whether the input ends the chat session.
func isExit(input string) bool {
	switch strings.ToLower(input) {
	case "exit", "quit":
		return true
	}
	return false
}
