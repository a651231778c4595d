package groupcv

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/groupcv/metadata"
)

// Logger wraps slog.Logger with groupcv-specific context.
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

// WithNGroups adds the number of held-out groups to the logger.
func (l *Logger) WithNGroups(p int) *Logger {
	return &Logger{
		Logger: l.Logger.With("n_groups", p),
	}
}

// WithSamples adds the sample count to the logger.
func (l *Logger) WithSamples(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("samples", n),
	}
}

// LogFold logs a yielded fold.
func (l *Logger) LogFold(ctx context.Context, key metadata.Value, train, test int) {
	l.DebugContext(ctx, "fold yielded",
		"key", key.String(),
		"train", train,
		"test", test,
	)
}

// LogRejected logs a combination dropped by the robustness filter.
func (l *Logger) LogRejected(ctx context.Context, key metadata.Value, target metadata.Value) {
	l.DebugContext(ctx, "combination rejected: single target value in test set",
		"key", key.String(),
		"target", target.String(),
	)
}

// LogEnumeration logs the summary of a finished enumeration.
func (l *Logger) LogEnumeration(ctx context.Context, visited, yielded, rejected int, elapsed time.Duration) {
	if rejected > 0 {
		l.InfoContext(ctx, "enumeration completed with rejected combinations",
			"combinations", visited,
			"folds", yielded,
			"rejected", rejected,
			"elapsed", elapsed,
		)
	} else {
		l.DebugContext(ctx, "enumeration completed",
			"combinations", visited,
			"folds", yielded,
			"elapsed", elapsed,
		)
	}
}
