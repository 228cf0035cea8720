package logger

import (
	"context"
	"log/slog"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig holds Sentry integration configuration.
type SentryConfig struct {
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
	// MinLevel determines which log levels are stored in Sentry (warn or error).
	MinLevel slog.Level `mapstructure:"-"`
}

// withSentry fans records out to next and Sentry. Without a DSN, or when the
// SDK cannot start, next is returned unchanged.
func withSentry(next slog.Handler, cfg SentryConfig) slog.Handler {
	if cfg.DSN == "" {
		return next
	}
	if cfg.Environment == "" {
		cfg.Environment = "production"
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(next).Error("failed to initialize Sentry", slog.String("error", err.Error()))
		return next
	}

	logLevel := []slog.Level{slog.LevelWarn, slog.LevelError}
	if cfg.MinLevel >= slog.LevelError {
		logLevel = []slog.Level{slog.LevelError}
	}

	sentryHandler := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError}, // failed sends become issues
		LogLevel:   logLevel,
	}.NewSentryHandler(context.Background())

	return newMultiHandler(next, sentryHandler)
}
