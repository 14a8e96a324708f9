package logger

import (
	"io"
	"log/slog"
)

// New returns a structured JSON logger using slog.
func New(level slog.Level, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}
	handler := slog.NewJSONHandler(w, opts)
	return slog.New(handler)
}
