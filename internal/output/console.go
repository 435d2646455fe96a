package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/daryltucker/ollama-bench/internal/model"
)

// Console prints the human-readable progress of a run.
// Colour follows fatih/color's detection (off for pipes and NO_COLOR).
type Console struct {
	w io.Writer

	heading *color.Color
	rate    *color.Color
	summary *color.Color
}

// NewConsole returns a Console writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{
		w:       w,
		heading: color.New(color.FgCyan, color.Bold),
		rate:    color.New(color.FgGreen),
		summary: color.New(color.FgYellow, color.Bold),
	}
}

// Banner announces a scenario and the constants it runs with.
func (c *Console) Banner(scenario, modelName string, numPredict int, temperature float64, numCtx int) {
	c.heading.Fprintf(c.w, "\n=== Scenario: %s | model=%s | num_predict=%d | temp=%v | num_ctx=%d ===\n",
		scenario, modelName, numPredict, temperature, numCtx)
}

// Trial prints the single-line summary of one measured trial.
func (c *Console) Trial(r model.TrialRecord) {
	fmt.Fprintf(c.w, "%-35s trial %d: prefill %s tok/s | decode %s tok/s | total %6.2fs | load %5.2fs\n",
		r.Model, r.Trial,
		c.rate.Sprintf("%8.2f", r.PrefillRate),
		c.rate.Sprintf("%8.2f", r.DecodeRate),
		r.TotalSeconds, r.LoadSeconds)
}

// Median prints the final decode-rate summary.
func (c *Console) Median(modelName string, loops int, median float64) {
	c.summary.Fprintf(c.w, "--> %s: median decode tok/s over %d trials = %.2f\n", modelName, loops, median)
}

// Saved reports where the results went.
func (c *Console) Saved(paths ...string) {
	for i, p := range paths {
		if i == 0 {
			fmt.Fprintf(c.w, "\nSaved CSV: %s\n", p)
			continue
		}
		fmt.Fprintf(c.w, "Saved JSONL: %s\n", p)
	}
}
