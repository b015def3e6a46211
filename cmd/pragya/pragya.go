// Package pragyacmder
package pragyacmder

import (
	"github.com/spf13/cobra"

	askcmder "github.com/neuradynamics/pragya/cmd/pragya/ask"
	chatcmder "github.com/neuradynamics/pragya/cmd/pragya/chat"
	configcmder "github.com/neuradynamics/pragya/cmd/pragya/config"
	evaluatecmder "github.com/neuradynamics/pragya/cmd/pragya/evaluate"
	ingestcmder "github.com/neuradynamics/pragya/cmd/pragya/ingest"
	servecmder "github.com/neuradynamics/pragya/cmd/pragya/serve"
	versioncmder "github.com/neuradynamics/pragya/cmd/version"
)

const pragyaLongDesc string = `Pragya answers natural-language questions against a policy document,
strictly from retrieved context.

Typical workflow:
  pragya ingest          Chunk and embed the policy document into the store
  pragya ask <question>  Ask a single question
  pragya chat            Interactive question loop
  pragya evaluate        Run the labeled question battery and write reports
  pragya serve           Run the HTTP API and MCP server`

const pragyaShortDesc string = "Pragya - Policy document Q&A"

func NewPragyaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pragya",
		Short: pragyaShortDesc,
		Long:  pragyaLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .pragya/ config directory")

	// Add subcommands
	cmd.AddCommand(ingestcmder.NewIngestCmd())
	cmd.AddCommand(askcmder.NewAskCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(evaluatecmder.NewEvaluateCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
