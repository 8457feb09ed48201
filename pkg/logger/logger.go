package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Log defaults to a stderr handler so packages can log before Init runs
// (and under `go test` without wiring).
var Log = slog.New(slog.NewTextHandler(os.Stderr, nil))

func Init() {
	// JSON handler for production-ready logging
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: levelFromEnv(),
	})
	Log = slog.New(handler)
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
