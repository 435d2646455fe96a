/*
PURPOSE:
  Defines the root Cobra command for the ollama-bench CLI.
  Handles global flags, environment binding and config resolution.

REQUIREMENTS:
  User-specified:
  - `ollama-bench --model <name> [--scenario ...]` runs the benchmark.
  - Support global flags like --config.

  Implementation-discovered:
  - Needs to expose an Execute() function for main.go.
  - OLLAMA_BENCH_* env vars for the GPU box crontab (viper).

ARCHITECTURE INTEGRATION:
  - Called by: cmd/ollama-bench/main.go
  - Calls: internal/config, child commands (list-models)

ERROR HANDLING:
  - Returns error to main.go for exit code handling.
  - Cobra error printing is silenced; main prints once.

IMPLEMENTATION RULES:
  - Use `PersistentFlags()` for flags available to all subcommands.
  - Precedence: flag > env > YAML file > defaults.

USAGE:
  Called by main.go.

SELF-HEALING INSTRUCTIONS:
  - If adding new global flags, add them to init() and to resolveConfig().

RELATED FILES:
  - cmd/ollama-bench/main.go
  - internal/cli/run.go

MAINTENANCE:
  - Update when adding global configuration options.
*/

package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/daryltucker/ollama-bench/internal/config"
)

var (
	// settings merges flags and OLLAMA_BENCH_* environment variables.
	settings = viper.New()

	rootCmd = &cobra.Command{
		Use:   "ollama-bench",
		Short: "Measure prefill and decode throughput of a local Ollama model",
		Long: `Benchmarks one model on a local Ollama server under a fixed workload shape.
A warm-up call is followed by a fixed number of measured trials; every trial is
appended to a timestamped CSV as soon as it completes, and the median decode
rate is printed at the end.`,
		Example: `  # Short prompt, long answer (default scenario)
  ollama-bench --model llama3:8b

  # Long prompt, short answer, results under ./results
  ollama-bench --model qwen2.5:7b --scenario large_in_small_out -o ./results

  # Remote host through the environment
  OLLAMA_BENCH_HOST=http://gpu-box:11434 ollama-bench --model llama3:8b`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE:          runBenchmarkCmd,
	}
)

// Execute executes the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	settings.SetEnvPrefix("OLLAMA_BENCH")
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default is ./ollama_bench.yaml or ./bench.yaml)")
	pf.String("host", "", "Ollama base URL (default "+config.DefaultHost+")")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: text or json")

	for _, name := range []string{"config", "host", "log-level", "log-format"} {
		_ = settings.BindPFlag(name, pf.Lookup(name))
	}
}

// resolveConfig loads the YAML config and applies env/flag overrides.
func resolveConfig() (*config.Config, error) {
	cfg, err := config.Load(settings.GetString("config"))
	if err != nil {
		return nil, err
	}

	if settings.IsSet("host") {
		cfg.Host = settings.GetString("host")
	}
	if settings.IsSet("output-dir") {
		cfg.OutputDir = settings.GetString("output-dir")
	}
	if settings.IsSet("jsonl") {
		cfg.JSONL = settings.GetBool("jsonl")
	}
	if settings.IsSet("log-level") {
		cfg.LogLevel = settings.GetString("log-level")
	}
	if settings.IsSet("log-format") {
		cfg.LogFormat = settings.GetString("log-format")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
