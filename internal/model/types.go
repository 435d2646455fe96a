/*
PURPOSE:
  Defines the core data structures used throughout ollama-bench.
  These models represent the generate request/response and one benchmark row.

REQUIREMENTS:
  User-specified:
  - Record prompt/generated token counts, prefill and decode durations and rates.
  - Track model name, scenario and the fixed config used.

  Implementation-discovered:
  - The server's field set varies across Ollama versions, so the response is a
    map read field-by-field with zero defaults instead of a fixed struct.
  - Need JSON tags for the JSONL sidecar.

ARCHITECTURE INTEGRATION:
  - Used by: internal/engine, internal/output
  - Shared across boundaries.

ERROR HANDLING:
  - None (pure data structs). Accessors never fail; bad values read as zero.

IMPLEMENTATION RULES:
  - Keep structs simple and public.
  - Temperature must always be serialized, 0.0 included (no omitempty).

USAGE:
  resp.Duration(model.FieldEvalDuration)

SELF-HEALING INSTRUCTIONS:
  - If new metrics are needed, add field and update CSV/JSON writers.

RELATED FILES:
  - internal/output/csv.go
  - internal/output/json.go

MAINTENANCE:
  - Update when adding new metrics to capture.
*/

package model

import (
	"encoding/json"
	"math"
	"time"
)

// Response fields read from /api/generate.
const (
	FieldTotalDuration      = "total_duration"
	FieldLoadDuration       = "load_duration"
	FieldPromptEvalCount    = "prompt_eval_count"
	FieldPromptEvalDuration = "prompt_eval_duration"
	FieldEvalCount          = "eval_count"
	FieldEvalDuration       = "eval_duration"
	FieldError              = "error"
)

// Options are the sampling options sent with every request.
type Options struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
	NumCtx      int     `json:"num_ctx"`
}

// GenerationRequest is the body of a non-streamed /api/generate call.
type GenerationRequest struct {
	Model     string  `json:"model"`
	Prompt    string  `json:"prompt"`
	Stream    bool    `json:"stream"`
	Options   Options `json:"options"`
	KeepAlive string  `json:"keep_alive,omitempty"`
}

// GenerationResponse holds the decoded response object.
// Every accessor treats a missing, null or mistyped field as zero.
type GenerationResponse map[string]any

// Int returns the integer value of key, or 0.
func (r GenerationResponse) Int(key string) int64 {
	switch v := r[key].(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		if f, err := v.Float64(); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return int64(f)
		}
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	}
	return 0
}

// Duration reads a nanosecond field as a time.Duration.
func (r GenerationResponse) Duration(key string) time.Duration {
	return time.Duration(r.Int(key))
}

// String returns the string value of key, or "".
func (r GenerationResponse) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// TrialRecord is one measured trial.
type TrialRecord struct {
	RunID      string    `json:"run_id"`
	Timestamp  time.Time `json:"timestamp"`
	Scenario   string    `json:"scenario"`
	Model      string    `json:"model"`
	PromptFile string    `json:"prompt_file"`
	Trial      int       `json:"trial"`

	Temperature float64 `json:"temperature"`
	NumCtx      int     `json:"num_ctx"`
	NumPredict  int     `json:"num_predict"`

	PromptTokens   int64   `json:"prompt_tokens"`
	PrefillSeconds float64 `json:"prefill_s"`
	PrefillRate    float64 `json:"prefill_tok_s"`
	GenTokens      int64   `json:"gen_tokens"`
	DecodeSeconds  float64 `json:"decode_s"`
	DecodeRate     float64 `json:"decode_tok_s"`
	LoadSeconds    float64 `json:"load_s"`
	TotalSeconds   float64 `json:"total_s"`
}
