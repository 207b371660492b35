package helpers

import (
	"io"
	"log/slog"
)

// NewNoopLogger returns a logger that discards every record. Components fall back to it when no logger is configured.
func NewNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
