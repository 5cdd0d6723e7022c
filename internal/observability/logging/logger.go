// Package logging builds the pipeline's structured loggers. The CLIs
// print answers on stdout, so logs always go to a separate writer.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// NewJSONLogger returns a JSON slog logger tagging every record with
// the originating service. Unknown level names fall back to info.
func NewJSONLogger(w io.Writer, service, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return slog.New(handler).With("service", service)
}

func parseLevel(level string) slog.Level {
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
