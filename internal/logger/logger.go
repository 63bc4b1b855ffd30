package logger

import (
	"log/slog"
	"os"
)

// Init configures the process-wide logger. Debug mode gets a readable text
// handler; release mode gets JSON for log shipping.
func Init(ginMode string) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var handler slog.Handler
	if ginMode == "release" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
