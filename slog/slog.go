// Package slog provides logging decorators for lexdoc services.
package slog

import (
	"context"
	"log/slog"

	"github.com/fwojciec/lexdoc"
)

// withSession adds the session ID carried by ctx, if any.
func withSession(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if s := lexdoc.SessionFromContext(ctx); s != nil {
		return logger.With("session", s.ID)
	}
	return logger
}
