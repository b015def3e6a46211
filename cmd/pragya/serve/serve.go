// Package servecmder provides the serve command for running the API and MCP server.
package servecmder

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/neuradynamics/pragya/api"
	"github.com/neuradynamics/pragya/api/mcp"
	"github.com/neuradynamics/pragya/pkg/config"
	"github.com/neuradynamics/pragya/pkg/logger"
	"github.com/neuradynamics/pragya/pkg/pipeline"
)

type serveCommander struct {
	listen     string
	disableMCP bool

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

const serveLongDesc string = `Run the Pragya HTTP API server.

The server exposes the policy agent over REST:

  GET  /ping         health check
  GET  /v1/search    retrieve chunks for a query
  POST /v1/ask       answer a question from the document
  POST /v1/evaluate  run the evaluation battery

It also mounts an MCP (Model Context Protocol) endpoint at /mcp exposing
search_policy and ask_policy tools, unless --no-mcp is set.

The server shuts down cleanly on SIGINT or SIGTERM.`

const serveShortDesc string = "Run the Pragya API server"

var serveFlags = []string{
	config.FlagAPIListen,
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

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.DefaultFlagSet(), serveFlags)
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
	config.AddStringFlag(cmd, fs, config.FlagAPIListen, &cmder.listen)
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

	cmd.Flags().BoolVar(&cmder.disableMCP, "no-mcp", false, "Disable the MCP endpoint")

	return cmd
}

func (c *serveCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	ctx := context.Background()

	p, err := pipeline.Build(ctx, c.cfg, pipeline.Options{}, c.logger)
	if err != nil {
		return err
	}
	defer p.Close()

	mcpServer, err := mcp.NewServer(mcp.Config{
		Retriever: p.Retriever,
		Composer:  p.Composer,
		Noop:      c.disableMCP,
		Logger:    c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	var mountedMCP *mcp.Server
	if !c.disableMCP {
		mountedMCP = mcpServer
	}

	apiServer := api.NewServer(api.Config{
		ListenAddr: c.cfg.API.Listen,
		Retriever:  p.Retriever,
		Composer:   p.Composer,
		Harness:    p.Harness,
	}, mountedMCP, c.logger)

	errChan := make(chan error, 1)
	go func() {
		if err := apiServer.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return apiServer.Shutdown()
	}
}
