package graphqlws

import "log/slog"

// NopLogger returns a logger that discards all output.
// It is the default when WithLogger is not given.
func NopLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
