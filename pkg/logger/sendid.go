package logger

import (
	"context"
	"log/slog"
)

type sendIDKey struct{}

// WithSendID stores the identifier of the current mail send in ctx.
func WithSendID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sendIDKey{}, id)
}

// SendID returns the send identifier stored by WithSendID.
func SendID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sendIDKey{}).(string)
	return id, ok && id != ""
}

// SendIDExtractor adds the "send_id" attribute to records logged with a send context.
func SendIDExtractor() ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := SendID(ctx); ok {
			return slog.String("send_id", id), true
		}
		return slog.Attr{}, false
	}
}
