// Package observability carries session-scoped log fields on a context and
// injects them into every slog record logged with that context.
package observability

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/cmdcenter/internal/logfields"
)

// LogContext holds structured logging context information.
type LogContext struct {
	SessionID    string
	InvocationID string
	Script       string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// WithSessionID adds a session ID to the context.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	lc := extractLogContext(ctx)
	lc.SessionID = sessionID
	return context.WithValue(ctx, logContextKey, lc)
}

// WithInvocationID adds an invocation ID to the context.
func WithInvocationID(ctx context.Context, invocationID string) context.Context {
	lc := extractLogContext(ctx)
	lc.InvocationID = invocationID
	return context.WithValue(ctx, logContextKey, lc)
}

// WithScript adds the script being run to the context.
func WithScript(ctx context.Context, script string) context.Context {
	lc := extractLogContext(ctx)
	lc.Script = script
	return context.WithValue(ctx, logContextKey, lc)
}

func extractLogContext(ctx context.Context) LogContext {
	if ctx == nil {
		return LogContext{}
	}
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

// GetContext returns the structured log context from the provided context.
func GetContext(ctx context.Context) LogContext {
	return extractLogContext(ctx)
}

func getLogAttrs(ctx context.Context) []slog.Attr {
	lc := extractLogContext(ctx)
	attrs := []slog.Attr{}

	if lc.SessionID != "" {
		attrs = append(attrs, logfields.SessionID(lc.SessionID))
	}
	if lc.InvocationID != "" {
		attrs = append(attrs, logfields.InvocationID(lc.InvocationID))
	}
	if lc.Script != "" {
		attrs = append(attrs, logfields.File(lc.Script))
	}
	return attrs
}

// ContextHandler decorates records with the fields carried on their
// context. Keys already present on the record are left alone.
type ContextHandler struct {
	next slog.Handler
}

// NewContextHandler wraps next.
func NewContextHandler(next slog.Handler) *ContextHandler {
	return &ContextHandler{next: next}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	extra := getLogAttrs(ctx)
	if len(extra) == 0 {
		return h.next.Handle(ctx, r)
	}

	present := make(map[string]bool, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		present[a.Key] = true
		return true
	})
	for _, a := range extra {
		if !present[a.Key] {
			r.AddAttrs(a)
		}
	}
	return h.next.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{next: h.next.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{next: h.next.WithGroup(name)}
}
