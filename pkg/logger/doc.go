// Package logger builds structured slog loggers for mail delivery.
//
// Loggers write JSON (or text) records and run every record through a set of
// context extractors. The send ID extractor is always installed, so anything
// logged with the context of a send carries a "send_id" attribute:
//
//	log := logger.New(logger.WithLevel(slog.LevelDebug))
//	ctx := logger.WithSendID(context.Background(), "0f9c...")
//	log.InfoContext(ctx, "mail send completed")
//	// {"level":"INFO","msg":"mail send completed","send_id":"0f9c..."}
//
// # Sentry
//
// WithSentry forwards warnings and errors to Sentry. Errors become issues,
// which makes failed deliveries visible without extra wiring. An empty DSN
// keeps stdout-only logging, so the same setup works in development:
//
//	log := logger.New(logger.WithSentry(logger.SentryConfig{
//		DSN:         os.Getenv("SENTRY_DSN"),
//		Environment: "production",
//		MinLevel:    slog.LevelWarn,
//	}))
//
// NewNope returns a logger that discards everything; it is the default for
// mail builders created without a logger.
package logger
