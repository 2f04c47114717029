package monitoring

import (
	"errors"
	"testing"
	"time"

	coremon "github.com/kilianp07/battsim/core/monitoring"
)

func TestNewSentryMonitorDisabled(t *testing.T) {
	m, err := NewSentryMonitor(SentryConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := m.(coremon.NopMonitor); !ok {
		t.Fatalf("expected NopMonitor, got %T", m)
	}
}

func TestNewSentryMonitorInvalidDSN(t *testing.T) {
	if _, err := NewSentryMonitor(SentryConfig{DSN: "not a dsn"}); err == nil {
		t.Fatalf("expected DSN error")
	}
}

func TestSentryMonitorCapture(t *testing.T) {
	m, err := NewSentryMonitor(SentryConfig{DSN: "https://public@127.0.0.1:1/1", Environment: "test"})
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	m.CaptureException(nil, nil)
	m.CaptureException(errors.New("run failed"), map[string]string{"run_id": "r1"})
	m.Flush(10 * time.Millisecond)
}
