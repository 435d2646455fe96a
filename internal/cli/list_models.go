/*
PURPOSE:
  Defines the 'list-models' subcommand.
  Helps debug connectivity and pick a --model value before a run.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.GetModels()

ERROR HANDLING:
  - Returns the error if the host is unreachable.

USAGE:
  ollama-bench list-models --host http://gpu-box:11434
*/

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daryltucker/ollama-bench/internal/engine"
	"github.com/daryltucker/ollama-bench/internal/output"
)

var listModelsCmd = &cobra.Command{
	Use:   "list-models",
	Short: "List models available on the Ollama host",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig()
		if err != nil {
			return err
		}
		if err := output.Configure(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr()); err != nil {
			return err
		}
		cmd.SilenceUsage = true

		output.Logger.Debug("Querying models", "host", cfg.Host)
		models, err := engine.New(cfg).GetModels(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list models on %s: %w", cfg.Host, err)
		}
		for _, m := range models {
			fmt.Fprintf(cmd.OutOrStdout(), "- %s\n", m)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listModelsCmd)
}
