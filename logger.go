package bitnet

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with bitnet-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithTensor adds a tensor element-count field to the logger.
func (l *Logger) WithTensor(elements int) *Logger {
	return &Logger{
		Logger: l.Logger.With("elements", elements),
	}
}

// LogCacheWeights logs a load-time weight registration.
func (l *Logger) LogCacheWeights(elements, bytes int, err error) {
	if err != nil {
		l.Error("weight caching failed",
			"elements", elements,
			"error", err,
		)
	} else {
		l.Debug("weights cached",
			"elements", elements,
			"bytes", bytes,
		)
	}
}
