package internal

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevFlags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
	})
	return &buf
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"ERROR":  LogLevelError,
		"warn":   LogLevelWarn,
		" info ": LogLevelInfo,
		"DEBUG":  LogLevelDebug,
		"TRACE":  LogLevelTrace,
		"":       LogLevelInfo,
		"noisy":  LogLevelInfo,
	}
	for input, want := range tests {
		if got := ParseLogLevel(input); got != want {
			t.Errorf("ParseLogLevel(%q) = %d, want %d", input, got, want)
		}
	}
}

func TestLoggerFiltersByLevel(t *testing.T) {
	buf := captureLog(t)

	logger := NewLogger(LogLevelWarn)
	logger.Info("hidden %d", 1)
	logger.Debug("hidden %d", 2)
	logger.Warn("shown %d", 3)
	logger.Error("shown %d", 4)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected info/debug lines to be filtered, got %q", out)
	}
	if !strings.Contains(out, "[WARN] shown 3") || !strings.Contains(out, "[ERROR] shown 4") {
		t.Errorf("expected warn and error lines, got %q", out)
	}
}

func TestLoggerWithComponent(t *testing.T) {
	buf := captureLog(t)

	logger := NewLogger(LogLevelTrace).With("Encoder")
	logger.Trace("column %s", "SPX")

	if got := strings.TrimSpace(buf.String()); got != "[TRACE] [Encoder] column SPX" {
		t.Errorf("unexpected log line %q", got)
	}
	if logger.GetLevel() != LogLevelTrace {
		t.Errorf("expected component logger to keep level")
	}
}
