// Package logging builds the structured logger shared by the server and its middleware.
package logging

import (
	"io"
	"log/slog"
)

// New returns a logger writing to w. Production gets JSON at info level;
// anything else gets readable text at debug level.
func New(production bool, w io.Writer) *slog.Logger {
	if production {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
