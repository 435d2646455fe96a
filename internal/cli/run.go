/*
PURPOSE:
  Runs the benchmark from the root command.
  Resolves model/scenario, opens the output files and drives engine.Runner.

REQUIREMENTS:
  User-specified:
  - --model is required, --scenario defaults to small_in_large_out.
  - Missing prompt file fails before any call to the server.

  Implementation-discovered:
  - Output files are opened here and closed by defer, also on failure, so
    rows written before an error stay valid.
  - Countdown bar only when stderr is a terminal.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.Runner.Run()
  - Uses: internal/config, internal/output

ERROR HANDLING:
  - Returns error if config, prompt, output file or engine run fails.

IMPLEMENTATION RULES:
  - Setup flags in init().
  - Logic: Load Config -> Override -> Prompt -> Outputs -> Runner.Run.

USAGE:
  ollama-bench --model llama3:8b --scenario large_in_small_out

RELATED FILES:
  - internal/cli/root.go
  - internal/engine/runner.go
*/

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/daryltucker/ollama-bench/internal/config"
	"github.com/daryltucker/ollama-bench/internal/engine"
	"github.com/daryltucker/ollama-bench/internal/output"
)

func init() {
	f := rootCmd.Flags()
	f.StringP("model", "m", "", "Model name to benchmark (required)")
	f.StringP("scenario", "s", config.SmallInLargeOut, "Scenario: "+strings.Join(config.ScenarioNames(), " or "))
	f.StringP("output-dir", "o", "", "Output directory for results (default .)")
	f.Bool("jsonl", false, "Also write a JSON Lines file next to the CSV")

	for _, name := range []string{"model", "scenario", "output-dir", "jsonl"} {
		_ = settings.BindPFlag(name, f.Lookup(name))
	}
}

func runBenchmarkCmd(cmd *cobra.Command, args []string) error {
	modelName := strings.TrimSpace(settings.GetString("model"))
	if modelName == "" {
		return errors.New(`required flag "model" not set`)
	}

	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	if err := output.Configure(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr()); err != nil {
		return err
	}

	sc, err := cfg.Scenario(settings.GetString("scenario"))
	if err != nil {
		return err
	}
	prompt, err := sc.LoadPrompt()
	if err != nil {
		return err
	}

	cmd.SilenceUsage = true
	return runBenchmark(cmd.Context(), cfg, modelName, sc, prompt, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

func runBenchmark(ctx context.Context, cfg *config.Config, modelName string, sc config.Scenario, prompt string, stdout, stderr io.Writer) error {
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", cfg.OutputDir, err)
	}

	stem := filepath.Join(cfg.OutputDir, output.FileStem(modelName, sc.Name, time.Now()))

	csvPath := stem + ".csv"
	csvWriter, err := output.NewCSVWriter(csvPath)
	if err != nil {
		return fmt.Errorf("failed to init CSV writer at %s: %w", csvPath, err)
	}
	defer csvWriter.Close()

	writers := []output.RecordWriter{csvWriter}
	saved := []string{csvPath}

	if cfg.JSONL {
		jsonPath := stem + ".jsonl"
		jsonWriter, err := output.NewJSONWriter(jsonPath)
		if err != nil {
			return fmt.Errorf("failed to init JSON writer at %s: %w", jsonPath, err)
		}
		defer jsonWriter.Close()
		writers = append(writers, jsonWriter)
		saved = append(saved, jsonPath)
	}

	pause := engine.Sleep
	if f, ok := stderr.(*os.File); ok && output.IsTerminal(f) {
		pause = output.Countdown(f)
	}

	runID := uuid.NewString()
	console := output.NewConsole(stdout)
	runner := &engine.Runner{
		Client:   engine.New(cfg),
		Writer:   output.MultiWriter(writers...),
		Console:  console,
		Settings: cfg.RunConfig(),
		RunID:    runID,
		Pause:    pause,
	}

	output.Logger.Info("Starting benchmark",
		"run_id", runID,
		"model", modelName,
		"scenario", sc.Name,
		"host", cfg.Host,
		"csv", csvPath,
	)

	if _, err := runner.Run(ctx, modelName, sc, prompt); err != nil {
		output.Logger.Error("Benchmark aborted, completed trials kept", "run_id", runID, "csv", csvPath, "error", err)
		return err
	}

	console.Saved(saved...)
	return nil
}
