package lightfs

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with lightfs-specific context.
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
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithVolume adds the backing file path to the logger.
func (l *Logger) WithVolume(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("volume", path),
	}
}

// LogCreate logs a create operation.
func (l *Logger) LogCreate(name string, err error) {
	if err != nil {
		l.Error("create failed",
			"name", name,
			"error", err,
		)
	} else {
		l.Debug("create completed",
			"name", name,
		)
	}
}

// LogRename logs a rename operation.
func (l *Logger) LogRename(oldName, newName string, err error) {
	if err != nil {
		l.Error("rename failed",
			"old", oldName,
			"new", newName,
			"error", err,
		)
	} else {
		l.Debug("rename completed",
			"old", oldName,
			"new", newName,
		)
	}
}

// LogDelete logs a delete operation.
func (l *Logger) LogDelete(name string, blocksReleased int, err error) {
	if err != nil {
		l.Error("delete failed",
			"name", name,
			"error", err,
		)
	} else {
		l.Debug("delete completed",
			"name", name,
			"blocks_released", blocksReleased,
		)
	}
}

// LogRead logs a read operation.
func (l *Logger) LogRead(name string, size int, err error) {
	if err != nil {
		l.Error("read failed",
			"name", name,
			"error", err,
		)
	} else {
		l.Debug("read completed",
			"name", name,
			"size", size,
		)
	}
}

// LogWrite logs a write operation.
func (l *Logger) LogWrite(name string, size, blocks int, err error) {
	if err != nil {
		l.Error("write failed",
			"name", name,
			"size", size,
			"error", err,
		)
	} else {
		l.Debug("write completed",
			"name", name,
			"size", size,
			"blocks", blocks,
		)
	}
}
