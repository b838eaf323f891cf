package log

import "time"

type options struct {
	level      Level
	format     Format
	timeLayout string
}

func defaults() options {
	return options{
		level:      LevelInfo,
		format:     FormatText,
		timeLayout: time.StampMilli,
	}
}

// Option configures a Logger at construction.
type Option func(*options)

// WithLevel sets the minimum level emitted.
func WithLevel(l Level) Option {
	return func(o *options) { o.level = l }
}

// WithFormat selects the handler encoding.
func WithFormat(f Format) Option {
	return func(o *options) { o.format = f }
}

// WithTimeLayout sets the timestamp layout for text and pretty output.
func WithTimeLayout(layout string) Option {
	return func(o *options) { o.timeLayout = layout }
}
