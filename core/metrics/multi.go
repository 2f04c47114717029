package metrics

import (
	"errors"
	"io"
)

// MultiSink fans records out to several sinks.
type MultiSink struct {
	Sinks []StepSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...StepSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordStep forwards the record to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordStep(rec StepRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordStep(rec); err != nil {
			return err
		}
	}
	return nil
}

// RecordSummary forwards the summary to sinks that accept one.
func (m *MultiSink) RecordSummary(sum Summary) error {
	for _, s := range m.Sinks {
		if err := RecordSummary(s, sum); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink and joins their errors.
func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.Sinks {
		errs = append(errs, Close(s))
	}
	return errors.Join(errs...)
}

// RecordSummary hands sum to s when s implements SummaryRecorder.
func RecordSummary(s StepSink, sum Summary) error {
	if r, ok := s.(SummaryRecorder); ok {
		return r.RecordSummary(sum)
	}
	return nil
}

// Close closes s when it holds resources.
func Close(s StepSink) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
