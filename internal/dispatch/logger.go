package dispatch

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/cmdcenter/internal/logfields"
)

// Logger receives one Outcome per evaluated invocation. Implementations must
// not call back into the Center that is logging.
type Logger interface {
	Log(ctx context.Context, outcome Outcome)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(ctx context.Context, outcome Outcome)

func (f LoggerFunc) Log(ctx context.Context, outcome Outcome) { f(ctx, outcome) }

// NopLogger drops every outcome.
type NopLogger struct{}

func (NopLogger) Log(context.Context, Outcome) {}

// MultiLogger fans an outcome out to several loggers in order.
type MultiLogger []Logger

func (m MultiLogger) Log(ctx context.Context, outcome Outcome) {
	for _, l := range m {
		if l != nil {
			l.Log(ctx, outcome)
		}
	}
}

// SlogLogger writes outcomes as structured log records.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger returns a SlogLogger writing to l, or to slog.Default() when l is nil.
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{logger: l}
}

func (s *SlogLogger) Log(ctx context.Context, o Outcome) {
	l := s.logger
	if l == nil {
		l = slog.Default()
	}

	attrs := []slog.Attr{
		logfields.InvocationID(o.ID),
		logfields.CommandText(o.Command),
		logfields.Success(o.Success),
		logfields.Phase(string(o.Reached)),
		logfields.DurationMS(float64(o.Duration.Microseconds()) / 1000),
	}
	if o.Name != "" {
		attrs = append(attrs, logfields.Command(o.Name), logfields.ArgCount(len(o.Args)))
	}

	if o.Success {
		l.LogAttrs(ctx, slog.LevelInfo, "Command succeeded", attrs...)
		return
	}
	attrs = append(attrs, logfields.Kind(string(o.Kind)), slog.String("reason", o.Reason))
	l.LogAttrs(ctx, slog.LevelWarn, "Command failed", attrs...)
}
