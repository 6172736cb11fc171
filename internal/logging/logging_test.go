package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" DEBUG ", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := Level(tt.value); got != tt.want {
			t.Fatalf("Level(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestForComponent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	ForComponent(base, "rater").Info("article rated")

	out := buf.String()
	if !strings.Contains(out, "component=rater") {
		t.Fatalf("component attribute missing: %q", out)
	}
}

func TestForComponentNilLogger(t *testing.T) {
	t.Parallel()

	if ForComponent(nil, "api") == nil {
		t.Fatal("expected a usable logger")
	}
}

func TestNewHonorsLevel(t *testing.T) {
	t.Parallel()

	logger := New("error")
	if logger.Enabled(nil, slog.LevelInfo) {
		t.Fatal("info must be disabled at error level")
	}
	if !logger.Enabled(nil, slog.LevelError) {
		t.Fatal("error must be enabled at error level")
	}
}
