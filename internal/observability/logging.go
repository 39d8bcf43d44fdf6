// Package observability provides logging, metrics, and tracing.
package observability

import (
	"log/slog"
	"os"
)

// GlobalLogger is the process-wide structured logger. Everything the API
// emits goes through it as JSON on stdout.
var GlobalLogger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
	Level: slog.LevelInfo,
}))
