package rmq

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with consistent field names for index operations.
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
func NewJSONLogger(level slog.Level) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(1000),
		})),
	}
}

// WithName adds an index name field to the logger.
func (l *Logger) WithName(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("name", name),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogBuild logs the construction of an index over n values.
func (l *Logger) LogBuild(ctx context.Context, n int, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "build failed",
			"values", n,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "build completed",
		"values", n,
		"duration", d,
	)
}

// LogOpen logs the validation of a serialized buffer.
func (l *Logger) LogOpen(ctx context.Context, bytes int, d time.Duration, err error) {
	if err != nil {
		l.WarnContext(ctx, "open failed",
			"bytes", bytes,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "open completed",
		"bytes", bytes,
		"duration", d,
	)
}

// LogSave logs writing an index to a blob store.
func (l *Logger) LogSave(ctx context.Context, name string, bytes int64, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "save failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "save completed",
		"name", name,
		"bytes", bytes,
		"duration", d,
	)
}

// LogLoad logs reading an index from a blob store.
func (l *Logger) LogLoad(ctx context.Context, name string, bytes int64, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "load completed",
		"name", name,
		"bytes", bytes,
		"duration", d,
	)
}

// LogEvict logs the release of a cached index.
func (l *Logger) LogEvict(ctx context.Context, name string, bytes int64) {
	l.DebugContext(ctx, "index evicted",
		"name", name,
		"bytes", bytes,
	)
}
