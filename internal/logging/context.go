package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// FromContext returns the logger carried by ctx, or a disabled logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext attaches logger to ctx.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// WithComponent tags every entry logged through the returned context.
func WithComponent(ctx context.Context, component string) context.Context {
	return withFields(ctx, func(c zerolog.Context) zerolog.Context { return c.Str("component", component) })
}

// WithTabID scopes entries to one tab.
func WithTabID(ctx context.Context, tabID string) context.Context {
	return withFields(ctx, func(c zerolog.Context) zerolog.Context { return c.Str("tab_id", tabID) })
}

// WithEngineID scopes entries to one engine instance.
func WithEngineID(ctx context.Context, engineID uint64) context.Context {
	return withFields(ctx, func(c zerolog.Context) zerolog.Context { return c.Uint64("engine_id", engineID) })
}

func withFields(ctx context.Context, add func(zerolog.Context) zerolog.Context) context.Context {
	return WithContext(ctx, add(FromContext(ctx).With()).Logger())
}
