package engine

import (
	"slices"
	"time"

	"github.com/daryltucker/ollama-bench/internal/model"
)

// SafeRate returns tokens per second, or 0 when the duration is not positive.
func SafeRate(tokens int64, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(tokens) / d.Seconds()
}

// Median returns the median of values without reordering them.
// An even count averages the two middle values; an empty slice yields 0.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	cp := slices.Clone(values)
	slices.Sort(cp)
	if n%2 == 1 {
		return cp[n/2]
	}
	return (cp[n/2-1] + cp[n/2]) / 2
}

// Measurement is what one generate response says about throughput.
type Measurement struct {
	PromptTokens   int64
	PrefillSeconds float64
	PrefillRate    float64
	GenTokens      int64
	DecodeSeconds  float64
	DecodeRate     float64
	LoadSeconds    float64
	TotalSeconds   float64
}

// Measure derives seconds and rates from the nanosecond fields of resp.
func Measure(resp model.GenerationResponse) Measurement {
	promptTokens := resp.Int(model.FieldPromptEvalCount)
	prefill := resp.Duration(model.FieldPromptEvalDuration)
	genTokens := resp.Int(model.FieldEvalCount)
	decode := resp.Duration(model.FieldEvalDuration)

	return Measurement{
		PromptTokens:   promptTokens,
		PrefillSeconds: prefill.Seconds(),
		PrefillRate:    SafeRate(promptTokens, prefill),
		GenTokens:      genTokens,
		DecodeSeconds:  decode.Seconds(),
		DecodeRate:     SafeRate(genTokens, decode),
		LoadSeconds:    resp.Duration(model.FieldLoadDuration).Seconds(),
		TotalSeconds:   resp.Duration(model.FieldTotalDuration).Seconds(),
	}
}
