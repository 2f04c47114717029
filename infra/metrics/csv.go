package metrics

import (
	"fmt"
	"io"
	"os"

	coremetrics "github.com/kilianp07/battsim/core/metrics"
	"github.com/kilianp07/battsim/pkg/export"
)

// CSVConfig configures the CSV trace sink.
type CSVConfig struct {
	// Path of the output file; "-" or empty writes to stdout.
	Path string `json:"path"`
}

// CSVSink writes one row per step. Summaries are not written.
type CSVSink struct {
	w *export.CSVWriter
	c io.Closer
}

// NewCSVSink writes to w. Close does not close w.
func NewCSVSink(w io.Writer) *CSVSink {
	return &CSVSink{w: export.NewCSVWriter(w)}
}

// OpenCSVSink creates the file named by cfg.Path.
func OpenCSVSink(cfg CSVConfig) (*CSVSink, error) {
	if cfg.Path == "" || cfg.Path == "-" {
		return NewCSVSink(os.Stdout), nil
	}
	f, err := os.Create(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open csv sink: %w", err)
	}
	s := NewCSVSink(f)
	s.c = f
	return s, nil
}

func (s *CSVSink) RecordStep(r coremetrics.StepRecord) error {
	return s.w.Write(r)
}

// Close flushes buffered rows and closes the file it opened.
func (s *CSVSink) Close() error {
	err := s.w.Flush()
	if s.c != nil {
		if cerr := s.c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
