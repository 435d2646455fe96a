/*
PURPOSE:
  High-level runner that executes one benchmark scenario for one model.
  Warm-up, LOOPS measured trials, median decode rate.

REQUIREMENTS:
  User-specified:
  - Warm-up call is never recorded and never feeds the median.
  - Each row is written as soon as it is computed.
  - Fixed pause between trials (not after the last one).

  Implementation-discovered:
  - The pause must stop promptly on SIGINT without touching the output file.
  - Logging VRAM placement after warm-up explains odd numbers (CPU offload).

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli
  - Uses: internal/engine (Generator), internal/output

ERROR HANDLING:
  - Any generate or write error aborts the run. No retries.
  - Rows already written stay on disk.

IMPLEMENTATION RULES:
  - Strictly sequential; no goroutines.

USAGE:
  r := &engine.Runner{Client: e, Writer: csv, Console: output.NewConsole(os.Stdout), Settings: cfg.RunConfig()}
  sum, err := r.Run(ctx, "llama3:8b", scenario, prompt)

RELATED FILES:
  - internal/engine/client.go
  - internal/engine/metrics.go
*/

package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/daryltucker/ollama-bench/internal/config"
	"github.com/daryltucker/ollama-bench/internal/model"
	"github.com/daryltucker/ollama-bench/internal/output"
)

// Generator issues one generate call.
type Generator interface {
	Generate(ctx context.Context, r model.GenerationRequest) (model.GenerationResponse, error)
}

// PlacementReporter is implemented by clients that can say where a model is loaded.
type PlacementReporter interface {
	GetRunningModelInfo(ctx context.Context, modelName string) (size int64, sizeVRAM int64, err error)
}

// PauseFunc waits for d or until ctx is done.
type PauseFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default PauseFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Runner executes a scenario.
type Runner struct {
	Client   Generator
	Writer   output.RecordWriter
	Console  *output.Console
	Settings config.RunConfig
	RunID    string

	// Pause defaults to Sleep.
	Pause PauseFunc
	// Now defaults to time.Now.
	Now func() time.Time
}

// Summary is the outcome of a completed scenario.
type Summary struct {
	DecodeRates  []float64
	MedianDecode float64
}

func (r *Runner) request(modelName, prompt string, numPredict int) model.GenerationRequest {
	return model.GenerationRequest{
		Model:  modelName,
		Prompt: prompt,
		Stream: false,
		Options: model.Options{
			Temperature: r.Settings.Temperature,
			NumPredict:  numPredict,
			NumCtx:      r.Settings.NumCtx,
		},
		KeepAlive: r.Settings.KeepAlive,
	}
}

// Run executes warm-up, the measured trials and the median summary.
func (r *Runner) Run(ctx context.Context, modelName string, sc config.Scenario, prompt string) (Summary, error) {
	pause := r.Pause
	if pause == nil {
		pause = Sleep
	}
	now := r.Now
	if now == nil {
		now = time.Now
	}
	s := r.Settings
	log := output.Logger.With("run_id", r.RunID, "model", modelName, "scenario", sc.Name)

	r.Console.Banner(sc.Name, modelName, sc.NumPredict, s.Temperature, s.NumCtx)

	log.Info("Warming up", "prompt", s.WarmupPrompt, "num_predict", s.WarmupTokens)
	if _, err := r.Client.Generate(ctx, r.request(modelName, s.WarmupPrompt, s.WarmupTokens)); err != nil {
		return Summary{}, fmt.Errorf("warm-up failed: %w", err)
	}
	r.logPlacement(ctx, modelName)

	decodeRates := make([]float64, 0, s.Loops)
	for t := 1; t <= s.Loops; t++ {
		resp, err := r.Client.Generate(ctx, r.request(modelName, prompt, sc.NumPredict))
		if err != nil {
			return Summary{DecodeRates: decodeRates}, fmt.Errorf("trial %d/%d failed: %w", t, s.Loops, err)
		}

		m := Measure(resp)
		decodeRates = append(decodeRates, m.DecodeRate)

		rec := model.TrialRecord{
			RunID:          r.RunID,
			Timestamp:      now(),
			Scenario:       sc.Name,
			Model:          modelName,
			PromptFile:     sc.PromptFile,
			Trial:          t,
			Temperature:    s.Temperature,
			NumCtx:         s.NumCtx,
			NumPredict:     sc.NumPredict,
			PromptTokens:   m.PromptTokens,
			PrefillSeconds: m.PrefillSeconds,
			PrefillRate:    m.PrefillRate,
			GenTokens:      m.GenTokens,
			DecodeSeconds:  m.DecodeSeconds,
			DecodeRate:     m.DecodeRate,
			LoadSeconds:    m.LoadSeconds,
			TotalSeconds:   m.TotalSeconds,
		}
		if err := r.Writer.Write(rec); err != nil {
			return Summary{DecodeRates: decodeRates}, fmt.Errorf("failed to write trial %d: %w", t, err)
		}
		r.Console.Trial(rec)
		log.Debug("Trial recorded", "trial", t, "decode_tok_s", m.DecodeRate, "prefill_tok_s", m.PrefillRate)

		if t != s.Loops {
			if err := pause(ctx, s.Pause); err != nil {
				return Summary{DecodeRates: decodeRates}, fmt.Errorf("interrupted after trial %d: %w", t, err)
			}
		}
	}

	sum := Summary{DecodeRates: decodeRates, MedianDecode: Median(decodeRates)}
	r.Console.Median(modelName, s.Loops, sum.MedianDecode)
	return sum, nil
}

func (r *Runner) logPlacement(ctx context.Context, modelName string) {
	pr, ok := r.Client.(PlacementReporter)
	if !ok {
		return
	}
	size, vram, err := pr.GetRunningModelInfo(ctx, modelName)
	if err != nil {
		output.Logger.Warn("Could not read model placement", "model", modelName, "error", err)
		return
	}
	if size == 0 {
		output.Logger.Warn("Model not listed as running after warm-up", "model", modelName)
		return
	}
	output.Logger.Info("Model placement",
		"model", modelName,
		"size_mb", fmt.Sprintf("%.1f", float64(size)/1024/1024),
		"vram_mb", fmt.Sprintf("%.1f", float64(vram)/1024/1024),
		"vram_pct", fmt.Sprintf("%.1f%%", float64(vram)/float64(size)*100.0),
	)
}
