package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "http://localhost:11434", cfg.Host)
	assert.Equal(t, 0.0, cfg.Temperature)
	assert.Equal(t, 2048, cfg.NumCtx)
	assert.Equal(t, 5, cfg.Loops)
	assert.Equal(t, 512, cfg.OutLarge)
	assert.Equal(t, 128, cfg.OutSmall)
	assert.Equal(t, 5*time.Second, cfg.Pause)
	assert.Equal(t, "hi", cfg.WarmupPrompt)
	assert.Equal(t, 8, cfg.WarmupTokens)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	content := "host: http://gpu-box:11434\npause: 250ms\nloops: 3\nkeep_alive: 10m\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://gpu-box:11434", cfg.Host)
	assert.Equal(t, 250*time.Millisecond, cfg.Pause)
	assert.Equal(t, 3, cfg.Loops)
	assert.Equal(t, "10m", cfg.KeepAlive)
	// untouched keys keep their defaults
	assert.Equal(t, 2048, cfg.NumCtx)
	assert.Equal(t, "prompt_small.txt", cfg.SmallPromptFile)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("loops: [1, 2\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Loops = 0
	cfg.Host = ""
	cfg.OutSmall = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loops")
	assert.Contains(t, err.Error(), "host")
	assert.Contains(t, err.Error(), "output caps")
}

func TestScenarioBinding(t *testing.T) {
	cfg := DefaultConfig()

	small, err := cfg.Scenario(SmallInLargeOut)
	require.NoError(t, err)
	assert.Equal(t, "prompt_small.txt", small.PromptFile)
	assert.Equal(t, 512, small.NumPredict)

	large, err := cfg.Scenario(LargeInSmallOut)
	require.NoError(t, err)
	assert.Equal(t, "prompt_large.txt", large.PromptFile)
	assert.Equal(t, 128, large.NumPredict)

	_, err = cfg.Scenario("medium")
	assert.ErrorIs(t, err, ErrUnknownScenario)
}

func TestLoadPrompt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompt_small.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n  Tell me a story.  \n\n"), 0o644))

	prompt, err := Scenario{Name: SmallInLargeOut, PromptFile: path}.LoadPrompt()
	require.NoError(t, err)
	assert.Equal(t, "Tell me a story.", prompt)

	_, err = Scenario{Name: LargeInSmallOut, PromptFile: filepath.Join(dir, "missing.txt")}.LoadPrompt()
	assert.ErrorIs(t, err, os.ErrNotExist)

	blank := filepath.Join(dir, "blank.txt")
	require.NoError(t, os.WriteFile(blank, []byte(" \n\t"), 0o644))
	_, err = Scenario{Name: SmallInLargeOut, PromptFile: blank}.LoadPrompt()
	assert.ErrorIs(t, err, ErrEmptyPrompt)
}
