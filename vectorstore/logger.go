package vectorstore

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with store-specific helpers.
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

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
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

// WithNamespace adds a namespace field to the logger.
func (l *Logger) WithNamespace(ns Namespace) *Logger {
	return &Logger{
		Logger: l.Logger.With("namespace", ns.String()),
	}
}

// LogAdd logs a batch add operation.
func (l *Logger) LogAdd(ctx context.Context, ns Namespace, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "add failed",
			"namespace", ns.String(),
			"count", count,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "add completed",
			"namespace", ns.String(),
			"count", count,
		)
	}
}

// LogDelete logs a delete operation.
func (l *Logger) LogDelete(ctx context.Context, ns Namespace, removed int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "delete failed",
			"namespace", ns.String(),
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "delete completed",
			"namespace", ns.String(),
			"removed", removed,
		)
	}
}

// LogSearch logs a search operation.
func (l *Logger) LogSearch(ctx context.Context, ns Namespace, k, resultsFound int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed",
			"namespace", ns.String(),
			"k", k,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "search completed",
			"namespace", ns.String(),
			"k", k,
			"results", resultsFound,
		)
	}
}
