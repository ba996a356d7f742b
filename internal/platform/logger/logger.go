package logger

import (
	"log/slog"
	"os"
)

// New returns the root structured logger. Handlers and services log through
// slog so request IDs travel with every line.
func New() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
