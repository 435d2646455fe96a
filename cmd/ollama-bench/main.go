/*
PURPOSE:
  Entry point for ollama-bench.
  Initializes the CLI root command and executes it.

REQUIREMENTS:
  - Single binary entry point.
  - Exit 1 on any error, 0 after a complete run.

ARCHITECTURE INTEGRATION:
  - Calls: internal/cli.Execute()

ERROR HANDLING:
  - SIGINT/SIGTERM cancel the root context; the runner stops between or
    during calls and the CSV keeps every finished trial.

IMPLEMENTATION RULES:
  - Keep main() minimal. All logic belongs in internal/ packages.

USAGE:
  go build -o ollama-bench ./cmd/ollama-bench
  ./ollama-bench --model llama3:8b
*/

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/daryltucker/ollama-bench/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
