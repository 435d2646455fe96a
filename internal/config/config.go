/*
PURPOSE:
  Defines the configuration structure and loading logic for ollama-bench.
  Holds the fixed measurement constants and where to find prompts and the host.

REQUIREMENTS:
  User-specified:
  - Same temperature, context size and loop count for every model.
  - Two output caps, one per scenario.

  Implementation-discovered:
  - YAML file support so a lab machine can pin its own host/output dir.
  - Environment / flag overrides are applied on top by internal/cli (viper).

ARCHITECTURE INTEGRATION:
  - Used by: internal/cli, internal/engine
  - Dependencies: gopkg.in/yaml.v3

ERROR HANDLING:
  - Returns explicit error if config file is invalid.
  - Missing default files fall back to DefaultConfig().
  - Validate() rejects values that would make a run meaningless.

IMPLEMENTATION RULES:
  - Config struct tags should support yaml.
  - Defaults are the reference benchmark constants; do not change them casually,
    results across machines are only comparable when they match.

USAGE:
  cfg, err := config.Load("ollama_bench.yaml")
  rc := cfg.RunConfig()

SELF-HEALING INSTRUCTIONS:
  - If new fields are needed, add to Config struct and update DefaultConfig().

RELATED FILES:
  - internal/config/scenario.go
  - internal/cli/root.go

MAINTENANCE:
  - Update when adding new tuning parameters.
*/

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Reference benchmark constants.
const (
	DefaultHost         = "http://localhost:11434"
	DefaultTemperature  = 0.0
	DefaultNumCtx       = 2048
	DefaultLoops        = 5
	DefaultOutLarge     = 512
	DefaultOutSmall     = 128
	DefaultPause        = 5 * time.Second
	DefaultWarmupPrompt = "hi"
	DefaultWarmupTokens = 8

	DefaultSmallPromptFile = "prompt_small.txt"
	DefaultLargePromptFile = "prompt_large.txt"
)

// Config represents the full configuration for ollama-bench.
type Config struct {
	Host      string `yaml:"host"`
	OutputDir string `yaml:"output_dir"`
	// KeepAlive is passed through to Ollama when set (e.g. "10m").
	KeepAlive string `yaml:"keep_alive"`
	JSONL     bool   `yaml:"jsonl"`

	Temperature  float64       `yaml:"temperature"`
	NumCtx       int           `yaml:"num_ctx"`
	Loops        int           `yaml:"loops"`
	OutLarge     int           `yaml:"out_large"`
	OutSmall     int           `yaml:"out_small"`
	Pause        time.Duration `yaml:"pause"`
	WarmupPrompt string        `yaml:"warmup_prompt"`
	WarmupTokens int           `yaml:"warmup_tokens"`

	SmallPromptFile string `yaml:"small_prompt_file"`
	LargePromptFile string `yaml:"large_prompt_file"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// RunConfig is the immutable set of values a scenario run is measured with.
type RunConfig struct {
	Temperature  float64
	NumCtx       int
	Loops        int
	Pause        time.Duration
	WarmupPrompt string
	WarmupTokens int
	KeepAlive    string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Host:            DefaultHost,
		OutputDir:       ".",
		Temperature:     DefaultTemperature,
		NumCtx:          DefaultNumCtx,
		Loops:           DefaultLoops,
		OutLarge:        DefaultOutLarge,
		OutSmall:        DefaultOutSmall,
		Pause:           DefaultPause,
		WarmupPrompt:    DefaultWarmupPrompt,
		WarmupTokens:    DefaultWarmupTokens,
		SmallPromptFile: DefaultSmallPromptFile,
		LargePromptFile: DefaultLargePromptFile,
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// Load reads configuration from a file.
// If path is specified, it attempts to load that file.
// If path is empty, it searches for default files in order.
// If no file found, returns default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		found := false
		for _, name := range []string{"ollama_bench.yaml", "bench.yaml"} {
			data, err = os.ReadFile(name)
			if err == nil {
				path = name
				found = true
				break
			}
		}
		if !found {
			return cfg, nil
		}
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks that a run with this configuration can produce usable numbers.
func (c *Config) Validate() error {
	var errs []error
	if c.Host == "" {
		errs = append(errs, errors.New("host must not be empty"))
	}
	if c.Loops <= 0 {
		errs = append(errs, fmt.Errorf("loops must be positive, got %d", c.Loops))
	}
	if c.NumCtx <= 0 {
		errs = append(errs, fmt.Errorf("num_ctx must be positive, got %d", c.NumCtx))
	}
	if c.OutLarge <= 0 || c.OutSmall <= 0 {
		errs = append(errs, fmt.Errorf("output caps must be positive, got %d/%d", c.OutLarge, c.OutSmall))
	}
	if c.WarmupTokens <= 0 {
		errs = append(errs, fmt.Errorf("warmup_tokens must be positive, got %d", c.WarmupTokens))
	}
	if c.Pause < 0 {
		errs = append(errs, fmt.Errorf("pause must not be negative, got %s", c.Pause))
	}
	return errors.Join(errs...)
}

// RunConfig snapshots the measurement values.
func (c *Config) RunConfig() RunConfig {
	return RunConfig{
		Temperature:  c.Temperature,
		NumCtx:       c.NumCtx,
		Loops:        c.Loops,
		Pause:        c.Pause,
		WarmupPrompt: c.WarmupPrompt,
		WarmupTokens: c.WarmupTokens,
		KeepAlive:    c.KeepAlive,
	}
}
