package logger

import "log/slog"

// NewNope returns a logger whose records go nowhere.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
