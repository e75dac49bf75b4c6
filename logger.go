package jsonlddb

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with jsonlddb-specific context.
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

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// WithSnapshot adds a snapshot name field to the logger.
func (l *Logger) WithSnapshot(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("snapshot", name),
	}
}

// LogInsert logs an insert of triples.
func (l *Logger) LogInsert(triples int, err error) {
	if err != nil {
		l.Error("insert failed",
			"triples", triples,
			"error", err,
		)
	} else {
		l.Debug("insert completed",
			"triples", triples,
		)
	}
}

// LogRemove logs a removal of triples.
func (l *Logger) LogRemove(triples int, err error) {
	if err != nil {
		l.Error("remove failed",
			"triples", triples,
			"error", err,
		)
	} else {
		l.Debug("remove completed",
			"triples", triples,
		)
	}
}

// LogFrame logs the resolution of a frame.
func (l *Logger) LogFrame(entries int, err error) {
	if err != nil {
		l.Warn("frame rejected",
			"entries", entries,
			"error", err,
		)
	} else {
		l.Debug("frame resolved",
			"entries", entries,
		)
	}
}

// LogSnapshot logs a snapshot publish or restore.
func (l *Logger) LogSnapshot(op, name string, triples int, err error) {
	if err != nil {
		l.Error("snapshot "+op+" failed",
			"snapshot", name,
			"error", err,
		)
	} else {
		l.Info("snapshot "+op+" completed",
			"snapshot", name,
			"triples", triples,
		)
	}
}
