package logger

import (
	"io"
	"log/slog"
	"os"
)

// Output formats accepted by WithFormat.
const (
	FormatText = "text"
	FormatJSON = "json"
)

type options struct {
	format string
	output io.Writer
	level  slog.Level
}

func defaultOptions() options {
	return options{
		format: FormatText,
		output: os.Stdout,
		level:  slog.LevelInfo,
	}
}

// Option configures Init.
type Option func(*options)

// WithFormat selects the handler encoding: "text" or "json".
func WithFormat(format string) Option {
	return func(o *options) {
		if format != "" {
			o.format = format
		}
	}
}

// WithOutput redirects log records to w.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.output = w
		}
	}
}

// WithLevel sets the initial level.
func WithLevel(level slog.Level) Option {
	return func(o *options) {
		o.level = level
	}
}
