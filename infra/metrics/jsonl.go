package metrics

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	coremetrics "github.com/kilianp07/battsim/core/metrics"
)

// JSONLConfig configures the JSON lines sink.
type JSONLConfig struct {
	// Path of the output file; "-" or empty writes to stdout.
	Path string `json:"path"`
	// MaxSizeMB enables rotation once the file exceeds this size.
	MaxSizeMB  int `json:"max_size_mb"`
	MaxBackups int `json:"max_backups"`
	MaxAgeDays int `json:"max_age_days"`
}

// JSONLSink writes one JSON object per step. The summary, when recorded,
// is written last wrapped as {"summary": ...}.
type JSONLSink struct {
	w   *bufio.Writer
	enc *json.Encoder
	c   io.Closer
}

// NewJSONLSink writes to w. Close does not close w.
func NewJSONLSink(w io.Writer) *JSONLSink {
	bw := bufio.NewWriter(w)
	return &JSONLSink{w: bw, enc: json.NewEncoder(bw)}
}

// OpenJSONLSink creates the file named by cfg.Path.
func OpenJSONLSink(cfg JSONLConfig) (*JSONLSink, error) {
	if cfg.Path == "" || cfg.Path == "-" {
		return NewJSONLSink(os.Stdout), nil
	}
	if cfg.MaxSizeMB > 0 {
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("open jsonl sink: %w", err)
			}
		}
		lj := &lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
		s := NewJSONLSink(lj)
		s.c = lj
		return s, nil
	}
	f, err := os.Create(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open jsonl sink: %w", err)
	}
	s := NewJSONLSink(f)
	s.c = f
	return s, nil
}

func (s *JSONLSink) RecordStep(r coremetrics.StepRecord) error {
	return s.enc.Encode(r)
}

func (s *JSONLSink) RecordSummary(sum coremetrics.Summary) error {
	return s.enc.Encode(struct {
		Summary coremetrics.Summary `json:"summary"`
	}{sum})
}

// Close flushes buffered lines and closes the file it opened.
func (s *JSONLSink) Close() error {
	err := s.w.Flush()
	if s.c != nil {
		if cerr := s.c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
