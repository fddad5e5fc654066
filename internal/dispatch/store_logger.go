package dispatch

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/cmdcenter/internal/eventstore"
	"git.home.luguber.info/inful/cmdcenter/internal/logfields"
)

// StoreLogger appends every outcome to an event store as an
// InvocationEvaluated event. Store failures are logged and swallowed: the
// history is an audit trail, not part of the command's result.
type StoreLogger struct {
	store     eventstore.Store
	sessionID string
}

// NewStoreLogger records outcomes under sessionID.
func NewStoreLogger(store eventstore.Store, sessionID string) *StoreLogger {
	return &StoreLogger{store: store, sessionID: sessionID}
}

func (s *StoreLogger) Log(ctx context.Context, o Outcome) {
	payload, err := eventstore.Marshal(eventstore.TypeInvocationEvaluated, eventstore.InvocationRecord{
		InvocationID: o.ID,
		Command:      o.Command,
		Name:         o.Name,
		Args:         o.Args,
		Success:      o.Success,
		Kind:         string(o.Kind),
		Reason:       o.Reason,
		Duration:     o.Duration,
		Fingerprint:  o.StateFingerprint,
	})
	if err != nil {
		slog.Warn("Failed to encode invocation record", logfields.InvocationID(o.ID), logfields.Error(err))
		return
	}

	meta := map[string]string{"invocation_id": o.ID}
	if err := s.store.Append(ctx, s.sessionID, eventstore.TypeInvocationEvaluated, payload, meta); err != nil {
		slog.Warn("Failed to record invocation",
			logfields.SessionID(s.sessionID),
			logfields.InvocationID(o.ID),
			logfields.Error(err))
	}
}
