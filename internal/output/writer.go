package output

import "github.com/daryltucker/ollama-bench/internal/model"

// RecordWriter persists trial records as they are produced.
type RecordWriter interface {
	Write(model.TrialRecord) error
}

type multiWriter struct {
	writers []RecordWriter
}

// MultiWriter duplicates each record to all writers, stopping at the first error.
func MultiWriter(writers ...RecordWriter) RecordWriter {
	all := make([]RecordWriter, 0, len(writers))
	for _, w := range writers {
		if w != nil {
			all = append(all, w)
		}
	}
	return &multiWriter{writers: all}
}

func (m *multiWriter) Write(r model.TrialRecord) error {
	for _, w := range m.writers {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}
