/*
PURPOSE:
  Writes benchmark trials to a CSV file.
  Ensures data integrity by flushing writes immediately.

REQUIREMENTS:
  User-specified:
  - One file per (model, scenario, run), header once, one row per trial.
  - Rows written before a crash must survive it.

  Implementation-discovered:
  - Column order is fixed; downstream notebooks index by name and position.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine (through the RecordWriter interface)
  - Consumes: internal/model.TrialRecord

ERROR HANDLING:
  - Returns error on file creation or write failure.

IMPLEMENTATION RULES:
  - Use encoding/csv.
  - Flush() after every write (critical for crash resilience).

USAGE:
  w, err := output.NewCSVWriter("results.csv")
  w.Write(record)
  w.Close()

SELF-HEALING INSTRUCTIONS:
  - If CSV format changes, update Columns and record conversion together.

RELATED FILES:
  - internal/model/types.go

MAINTENANCE:
  - Update Write() mapping when TrialRecord changes.
*/

package output

import (
	"encoding/csv"
	"os"
	"strconv"
	"sync"

	"github.com/daryltucker/ollama-bench/internal/model"
)

// TimestampLayout is the local, second-precision ISO-8601 form used in rows.
const TimestampLayout = "2006-01-02T15:04:05"

// Columns is the fixed CSV header.
var Columns = []string{
	"timestamp", "scenario", "model", "trial", "temperature", "num_ctx", "num_predict",
	"prompt_tokens", "prefill_s", "prefill_tok_s", "gen_tokens", "decode_s", "decode_tok_s",
	"load_s", "total_s",
}

// CSVWriter handles writing results to a CSV file.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
	mu     sync.Mutex
}

// NewCSVWriter creates a new CSVWriter.
// It overwrites the file if it exists.
func NewCSVWriter(path string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)
	if err := w.Write(Columns); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return nil, err
	}

	return &CSVWriter{
		file:   f,
		writer: w,
	}, nil
}

// Path returns the file being written.
func (cw *CSVWriter) Path() string {
	return cw.file.Name()
}

// Write writes a single trial to the CSV file and flushes it.
func (cw *CSVWriter) Write(r model.TrialRecord) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if err := cw.writer.Write(csvRecord(r)); err != nil {
		return err
	}
	cw.writer.Flush()
	return cw.writer.Error()
}

// Close closes the underlying file.
func (cw *CSVWriter) Close() error {
	cw.writer.Flush()
	return cw.file.Close()
}

func csvRecord(r model.TrialRecord) []string {
	return []string{
		r.Timestamp.Format(TimestampLayout),
		r.Scenario,
		r.Model,
		strconv.Itoa(r.Trial),
		formatFloat(r.Temperature),
		strconv.Itoa(r.NumCtx),
		strconv.Itoa(r.NumPredict),
		strconv.FormatInt(r.PromptTokens, 10),
		formatFloat(r.PrefillSeconds),
		formatFloat(r.PrefillRate),
		strconv.FormatInt(r.GenTokens, 10),
		formatFloat(r.DecodeSeconds),
		formatFloat(r.DecodeRate),
		formatFloat(r.LoadSeconds),
		formatFloat(r.TotalSeconds),
	}
}

// formatFloat keeps full precision; rounding is left to the analysis side.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
