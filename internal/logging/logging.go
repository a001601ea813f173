// Package logging builds the application's *slog.Logger.
package logging

import (
	"io"
	"log/slog"
)

// New returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Staging: JSON output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func New(env string, w io.Writer) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case "staging":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default: // "dev" and anything unrecognised
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
