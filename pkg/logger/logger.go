package logger

import (
	"io"
	"log/slog"
	"os"
)

type options struct {
	writer     io.Writer
	extractors []ContextExtractor
	sentry     *SentryConfig
	level      slog.Level
	text       bool
}

// Option configures New.
type Option func(*options)

// WithLevel sets the minimum level written to the output. Defaults to info.
func WithLevel(level slog.Level) Option {
	return func(o *options) { o.level = level }
}

// WithWriter sets the output destination. Defaults to os.Stdout.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.writer = w
		}
	}
}

// WithText switches the output from JSON to logfmt-style text.
func WithText() Option {
	return func(o *options) { o.text = true }
}

// WithExtractors adds context extractors applied to every record.
func WithExtractors(extractors ...ContextExtractor) Option {
	return func(o *options) { o.extractors = append(o.extractors, extractors...) }
}

// WithSentry forwards warnings and errors to Sentry when cfg.DSN is set.
func WithSentry(cfg SentryConfig) Option {
	return func(o *options) { o.sentry = &cfg }
}

// New creates a structured logger. The send ID extractor is always installed.
func New(opts ...Option) *slog.Logger {
	o := &options{
		writer: os.Stdout,
		level:  slog.LevelInfo,
	}
	for _, opt := range opts {
		opt(o)
	}

	handlerOpts := &slog.HandlerOptions{Level: o.level}
	var out slog.Handler
	if o.text {
		out = slog.NewTextHandler(o.writer, handlerOpts)
	} else {
		out = slog.NewJSONHandler(o.writer, handlerOpts)
	}

	if o.sentry != nil {
		out = withSentry(out, *o.sentry)
	}

	extractors := append([]ContextExtractor{SendIDExtractor()}, o.extractors...)
	return slog.New(withContext(out, extractors))
}

// ParseLevel maps debug/info/warn/error to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
