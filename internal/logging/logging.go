package logging

import (
	"log/slog"
	"os"
	"strings"
)

// New creates the process-wide text logger at the configured level.
func New(level string) *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: Level(level),
	})
	return slog.New(handler)
}

// ForComponent tags a logger with the component attribute every subsystem
// (rater, pipeline, api, server, source) logs under, so one grep isolates
// a subsystem's output.
func ForComponent(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With("component", name)
}

// Level maps the config string onto a slog level; unknown values mean Info.
func Level(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
