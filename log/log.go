// Package log wraps log/slog with a Trace level, a pretty terminal
// handler, and a zero-value-usable Logger. The zero Logger discards
// everything, so library code can log unconditionally and stay silent
// unless its caller wired a logger in.
package log

import (
	"context"
	"io"
	"log/slog"
)

// Logger is a thin wrapper over *slog.Logger. The zero value is a
// no-op.
type Logger struct {
	sl *slog.Logger
}

// New builds a Logger writing to w.
func New(w io.Writer, opts ...Option) Logger {
	o := defaults()
	for _, opt := range opts {
		opt(&o)
	}

	hopts := &slog.HandlerOptions{
		Level:       slog.Level(o.level),
		ReplaceAttr: replaceLevelNames,
	}
	var h slog.Handler
	switch o.format {
	case FormatJSON:
		h = slog.NewJSONHandler(w, hopts)
	case FormatPretty:
		h = newPrettyHandler(w, slog.Level(o.level), o.timeLayout)
	default:
		h = slog.NewTextHandler(w, hopts)
	}
	return Logger{sl: slog.New(h)}
}

// Wrap adopts an existing *slog.Logger.
func Wrap(sl *slog.Logger) Logger { return Logger{sl: sl} }

// replaceLevelNames renames the level attribute so Trace records do
// not print as DEBUG-4.
func replaceLevelNames(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if lvl, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(levelName(lvl))
		}
	}
	return a
}

// Enabled reports whether the logger emits anything at all.
func (l Logger) Enabled() bool { return l.sl != nil }

// Slog exposes the underlying *slog.Logger, or nil for the zero
// Logger.
func (l Logger) Slog() *slog.Logger { return l.sl }

// With returns a Logger that adds attrs to every record.
func (l Logger) With(attrs ...slog.Attr) Logger {
	if l.sl == nil {
		return l
	}
	args := make([]any, len(attrs))
	for i, a := range attrs {
		args[i] = a
	}
	return Logger{sl: l.sl.With(args...)}
}

func (l Logger) log(level slog.Level, msg string, attrs ...slog.Attr) {
	if l.sl == nil {
		return
	}
	l.sl.LogAttrs(context.Background(), level, msg, attrs...)
}

// Trace logs below Debug; reserved for per-token and per-node detail.
func (l Logger) Trace(msg string, attrs ...slog.Attr) {
	l.log(slog.Level(LevelTrace), msg, attrs...)
}

// Debug logs at Debug.
func (l Logger) Debug(msg string, attrs ...slog.Attr) {
	l.log(slog.LevelDebug, msg, attrs...)
}

// Info logs at Info.
func (l Logger) Info(msg string, attrs ...slog.Attr) {
	l.log(slog.LevelInfo, msg, attrs...)
}

// Warn logs at Warn.
func (l Logger) Warn(msg string, attrs ...slog.Attr) {
	l.log(slog.LevelWarn, msg, attrs...)
}

// Error logs at Error.
func (l Logger) Error(msg string, attrs ...slog.Attr) {
	l.log(slog.LevelError, msg, attrs...)
}
