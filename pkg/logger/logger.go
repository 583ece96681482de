package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Log is the process-wide logger. It points at slog.Default until Init runs so
// packages can log before (or without) initialisation.
var Log = slog.Default()

func Init(level string) {
	InitTo(os.Stdout, level)
}

// InitTo is Init with an explicit destination; the CLI logs to stderr so
// stdout carries only notifications.
func InitTo(w io.Writer, level string) {
	// JSON handler for production-ready logging
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	Log = slog.New(handler)
}

// ParseLevel maps LOG_LEVEL values onto slog levels, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// Discard returns a logger that drops everything, handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
