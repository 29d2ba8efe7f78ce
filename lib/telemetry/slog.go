package telemetry

import (
	"log/slog"
	"os"
	"strings"
)

// InitSlog installs the default logger. level is one of
// debug/info/warn/error, anything else falls back to info.
func InitSlog(level string) {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: l,
	}))
	slog.SetDefault(logger)
}
