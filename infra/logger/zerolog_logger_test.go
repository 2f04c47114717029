package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZerologLoggerMethods(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	l := NewZerologLogger("test")
	if l == nil {
		t.Fatalf("nil logger")
	}
	assert.NotPanics(t, func() {
		l.Debugf("debug %d", 1)
		l.Debugw("debug", map[string]any{"k": 1})
		l.Infof("info %s", "test")
		l.Warnf("warn")
		l.Errorf("error")
	})
}

func TestZerologLoggerComponentAndLevel(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("LOG_LEVEL", "warn")
	var buf bytes.Buffer
	l := NewZerologLoggerTo(&buf, "fit")
	l.Infof("hidden")
	l.Warnf("curve fit did not converge")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered: %s", out)
	}
	assert.Contains(t, out, `"component":"fit"`)
	assert.Contains(t, out, "curve fit did not converge")
}

func TestZerologLoggerWith(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("LOG_LEVEL", "info")
	var buf bytes.Buffer
	l := NewZerologLoggerTo(&buf, "sim").(*ZerologLogger).With("run_id", "abc")
	l.Infof("started")
	assert.Contains(t, buf.String(), `"run_id":"abc"`)
}

func TestConfigure(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("LOG_LEVEL", "")
	defer func() { _ = Configure("info", "json") }()

	if err := Configure("chatty", ""); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if err := Configure("error", "json"); err != nil {
		t.Fatalf("configure: %v", err)
	}
	var buf bytes.Buffer
	l := NewZerologLoggerTo(&buf, "cfg")
	l.Warnf("dropped")
	l.Errorf("kept")
	out := buf.String()
	if strings.Contains(out, "dropped") || !strings.Contains(out, "kept") {
		t.Fatalf("level not applied: %s", out)
	}
}
