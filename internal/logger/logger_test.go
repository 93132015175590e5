package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLevelFilteringAndSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn")
	l.Info("hidden")
	l.Warn("shown", "k", "v")
	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("info should be filtered at warn: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "k=v") {
		t.Fatalf("missing attribute: %s", buf.String())
	}
	child := l.With("component", "test")
	l.SetLevel("debug")
	child.Debug("now visible")
	if !strings.Contains(buf.String(), "component=test") {
		t.Fatalf("child logger should share level: %s", buf.String())
	}
}
