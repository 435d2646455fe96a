/*
PURPOSE:
  Writes benchmark trials to a JSON Lines file (NDJSON) next to the CSV.
  Carries what the CSV columns cannot: run id and prompt file.

REQUIREMENTS:
  Implementation-discovered:
  - JSON Lines is append-friendly; a crash mid-run leaves valid lines behind.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine (through the RecordWriter interface)
  - Consumes: internal/model.TrialRecord

ERROR HANDLING:
  - Returns error on file creation or write failure.

IMPLEMENTATION RULES:
  - Use encoding/json.NewEncoder directly on the file (unbuffered).

USAGE:
  w, err := output.NewJSONWriter("results.jsonl")
  w.Write(record)
  w.Close()

RELATED FILES:
  - internal/model/types.go
*/

package output

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/daryltucker/ollama-bench/internal/model"
)

// JSONWriter handles writing results to a JSON Lines file.
type JSONWriter struct {
	file    *os.File
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewJSONWriter creates a new JSONWriter.
func NewJSONWriter(path string) (*JSONWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	return &JSONWriter{
		file:    f,
		encoder: json.NewEncoder(f),
	}, nil
}

// Write writes a single trial as a JSON line.
func (jw *JSONWriter) Write(r model.TrialRecord) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	return jw.encoder.Encode(r)
}

// Close closes the underlying file.
func (jw *JSONWriter) Close() error {
	return jw.file.Close()
}
