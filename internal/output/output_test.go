package output

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daryltucker/ollama-bench/internal/model"
)

func sampleRecord(trial int) model.TrialRecord {
	return model.TrialRecord{
		RunID:          "run-1",
		Timestamp:      time.Date(2026, 10, 19, 9, 30, 0, 0, time.Local),
		Scenario:       "small_in_large_out",
		Model:          "llama3:8b",
		PromptFile:     "prompt_small.txt",
		Trial:          trial,
		Temperature:    0,
		NumCtx:         2048,
		NumPredict:     512,
		PromptTokens:   26,
		PrefillSeconds: 0.5,
		PrefillRate:    52,
		GenTokens:      512,
		DecodeSeconds:  12.8,
		DecodeRate:     40,
		LoadSeconds:    0.01,
		TotalSeconds:   13.4,
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVWriterHeaderAndFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	w, err := NewCSVWriter(path)
	require.NoError(t, err)
	defer w.Close()

	// header is on disk before any row
	rows := readCSV(t, path)
	require.Len(t, rows, 1)
	assert.Equal(t, Columns, rows[0])

	require.NoError(t, w.Write(sampleRecord(1)))
	require.NoError(t, w.Write(sampleRecord(2)))

	// rows are readable without closing the writer
	rows = readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{
		"2026-10-19T09:30:00", "small_in_large_out", "llama3:8b", "2", "0", "2048", "512",
		"26", "0.5", "52", "512", "12.8", "40", "0.01", "13.4",
	}, rows[2])
	assert.Equal(t, path, w.Path())
}

func TestCSVWriterBadPath(t *testing.T) {
	_, err := NewCSVWriter(filepath.Join(t.TempDir(), "missing", "out.csv"))
	assert.Error(t, err)
}

func TestJSONWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	w, err := NewJSONWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(sampleRecord(1)))
	require.NoError(t, w.Write(sampleRecord(2)))
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var got []model.TrialRecord
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var r model.TrialRecord
		require.NoError(t, json.Unmarshal(sc.Bytes(), &r))
		got = append(got, r)
	}
	require.Len(t, got, 2)
	assert.Equal(t, "run-1", got[1].RunID)
	assert.Equal(t, "prompt_small.txt", got[1].PromptFile)
	assert.Equal(t, 2, got[1].Trial)
}

func TestFileStem(t *testing.T) {
	started := time.Unix(1760000000, 0)

	stem := FileStem("llama3:8b", "small_in_large_out", started)
	assert.Equal(t, "ollama_bench_llama3_8b_small_in_large_out_1760000000", stem)
	assert.NotContains(t, stem, "llama3:8b")

	assert.Equal(t, "hf.co_org_model_Q4", SanitizeModelName("hf.co/org/model:Q4"))
}

type recorder struct {
	got []int
	err error
}

func (r *recorder) Write(rec model.TrialRecord) error {
	if r.err != nil {
		return r.err
	}
	r.got = append(r.got, rec.Trial)
	return nil
}

func TestMultiWriter(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	w := MultiWriter(a, nil, b)

	require.NoError(t, w.Write(sampleRecord(1)))
	assert.Equal(t, []int{1}, a.got)
	assert.Equal(t, []int{1}, b.got)

	boom := errors.New("disk full")
	failing := MultiWriter(&recorder{err: boom}, b)
	assert.ErrorIs(t, failing.Write(sampleRecord(2)), boom)
	assert.Equal(t, []int{1}, b.got)
}

func TestConsole(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Banner("small_in_large_out", "llama3:8b", 512, 0, 2048)
	c.Trial(sampleRecord(3))
	c.Median("llama3:8b", 5, 30)
	c.Saved("a.csv", "a.jsonl")

	out := buf.String()
	assert.Contains(t, out, "=== Scenario: small_in_large_out | model=llama3:8b | num_predict=512 | temp=0 | num_ctx=2048 ===")
	assert.Contains(t, out, "trial 3: prefill    52.00 tok/s | decode    40.00 tok/s | total  13.40s | load  0.01s")
	assert.Contains(t, out, "--> llama3:8b: median decode tok/s over 5 trials = 30.00")
	assert.Contains(t, out, "Saved CSV: a.csv")
	assert.Contains(t, out, "Saved JSONL: a.jsonl")
}

func TestCountdown(t *testing.T) {
	var buf bytes.Buffer
	pause := Countdown(&buf)

	start := time.Now()
	require.NoError(t, pause(context.Background(), 30*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)

	require.NoError(t, pause(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, pause(ctx, time.Hour), context.Canceled)
}

func TestConfigure(t *testing.T) {
	defer SetLogger(Logger)

	var buf bytes.Buffer
	require.NoError(t, Configure("debug", "json", &buf))
	Logger.Debug("probe", "k", "v")
	assert.True(t, strings.HasPrefix(buf.String(), "{"))
	assert.Contains(t, buf.String(), `"k":"v"`)

	assert.Error(t, Configure("loud", "text", &buf))
	assert.Error(t, Configure("info", "xml", &buf))
}
