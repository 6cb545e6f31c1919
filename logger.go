package tabledb

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with table-specific context.
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
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithTable adds a table field to the logger.
func (l *Logger) WithTable(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("table", name),
	}
}

// LogCreate logs a table creation.
func (l *Logger) LogCreate(ctx context.Context, columns int) {
	l.InfoContext(ctx, "table created",
		"columns", columns,
	)
}

// LogInsert logs a batch insert.
func (l *Logger) LogInsert(ctx context.Context, rows int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "insert failed",
			"rows", rows,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "insert completed",
			"rows", rows,
		)
	}
}

// LogDelete logs a delete.
func (l *Logger) LogDelete(ctx context.Context, where string, deleted int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "delete failed",
			"where", where,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "delete completed",
			"where", where,
			"rows", deleted,
		)
	}
}

// LogUpdate logs an update.
func (l *Logger) LogUpdate(ctx context.Context, where string, updated int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "update failed",
			"where", where,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "update completed",
			"where", where,
			"rows", updated,
		)
	}
}

// LogProject logs a projection.
func (l *Logger) LogProject(ctx context.Context, columns []string, rows int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "projection failed",
			"columns", columns,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "projection completed",
			"columns", columns,
			"rows", rows,
		)
	}
}

// LogDrop logs a table drop.
func (l *Logger) LogDrop(ctx context.Context, rows int64, bytes int64) {
	l.InfoContext(ctx, "table dropped",
		"rows", rows,
		"bytes", bytes,
	)
}

// LogExport logs an export.
func (l *Logger) LogExport(ctx context.Context, name string, rows int, bytes int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "export failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "export completed",
			"name", name,
			"rows", rows,
			"bytes", bytes,
		)
	}
}
