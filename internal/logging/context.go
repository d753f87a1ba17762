package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	runIDKey    contextKey = "run_id"
	listenerKey contextKey = "listener"
)

// NewRunID returns a fresh identifier for one pipeline run.
func NewRunID() string {
	return uuid.NewString()
}

// ContextWithRun tags ctx with a listener and a run id. Loggers obtained
// through Ctx carry both fields.
func ContextWithRun(ctx context.Context, listener, runID string) context.Context {
	ctx = context.WithValue(ctx, listenerKey, listener)
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext returns the run id stored in ctx, or "".
func RunIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}

// ListenerFromContext returns the listener stored in ctx, or "".
func ListenerFromContext(ctx context.Context) string {
	if l, ok := ctx.Value(listenerKey).(string); ok {
		return l
	}
	return ""
}

// Ctx returns the global logger with the run fields of ctx added.
func Ctx(ctx context.Context) *zerolog.Logger {
	lc := Logger().With()
	if l := ListenerFromContext(ctx); l != "" {
		lc = lc.Str("listener", l)
	}
	if id := RunIDFromContext(ctx); id != "" {
		lc = lc.Str("run_id", id[:min(8, len(id))])
	}
	l := lc.Logger()
	return &l
}
