// Package configcmder provides the config command for managing persistent
// pragya configuration stored in the .pragya/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent pragya configuration.

Configuration is stored as config.toml in the .pragya/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values.

Keys use dotted notation matching the TOML section structure:
  document.path,
  chunking.max_length, chunking.overlap,
  retrieval.top_k,
  vector_store.provider, vector_store.path, vector_store.target,
  embedding.provider, embedding.target, embedding.model, embedding.dimensions,
  generation.provider, generation.target, generation.model,
  api.listen, eval.report_dir

Use subcommands to get, set, or list configuration values:
  pragya config set <key> <value>    Set a configuration value
  pragya config get <key>            Get a configuration value
  pragya config list                 List all configuration values

Examples:
  pragya config set embedding.model nomic-embed-text
  pragya config set generation.provider gemini
  pragya config get retrieval.top_k
  pragya config list`

const configShortDesc string = "Manage persistent pragya configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
