package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(LoggerConfig{Level: LogLevelWarn, Output: &buf, Prefix: "test"})

	log.Debug("debug msg")
	log.Info("info msg")
	log.Warn("warn msg")
	log.Error("error msg")

	out := buf.String()
	if strings.Contains(out, "debug msg") || strings.Contains(out, "info msg") {
		t.Errorf("below-threshold messages logged: %q", out)
	}
	if !strings.Contains(out, "warn msg") || !strings.Contains(out, "error msg") {
		t.Errorf("threshold messages missing: %q", out)
	}
}

func TestLoggerFieldsSortedAndInherited(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(LoggerConfig{Level: LogLevelDebug, Output: &buf})

	child := log.WithComponent("responder").WithField("attempt", 2)
	child.Info("hello")

	out := buf.String()
	if !strings.Contains(out, "{attempt=2, component=responder}") {
		t.Errorf("fields not sorted/inherited: %q", out)
	}

	// Parent logger is unchanged.
	buf.Reset()
	log.Info("plain")
	if strings.Contains(buf.String(), "component=") {
		t.Errorf("parent logger gained fields: %q", buf.String())
	}
}

func TestNullLoggerSilent(t *testing.T) {
	// Must not panic and must not write anywhere.
	NullLogger.Error("nothing")
	NullLogger.WithField("k", "v").Warn("nothing")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LogLevelDebug},
		{"INFO", LogLevelInfo},
		{"warning", LogLevelWarn},
		{"ERROR", LogLevelError},
		{"bogus", LogLevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
