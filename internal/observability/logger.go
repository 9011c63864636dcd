// Package observability configures process-wide structured logging.
package observability

import (
	"log/slog"
	"os"
)

// SetupLogger installs the default slog logger for the given run mode:
// compact text at debug level for dev, JSON at info level for prod.
func SetupLogger(mode string) {
	var handler slog.Handler
	if mode == "prod" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(handler))
}
