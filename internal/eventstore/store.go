package eventstore

import (
	"context"
	"time"
)

// Store defines the interface for persisting and retrieving session events.
type Store interface {
	// Append adds a new event to the store.
	Append(ctx context.Context, sessionID, eventType string, payload []byte, metadata map[string]string) error

	// GetBySession retrieves all events of one session in append order.
	GetBySession(ctx context.Context, sessionID string) ([]Event, error)

	// GetRange retrieves events within a time range.
	GetRange(ctx context.Context, start, end time.Time) ([]Event, error)

	// Close closes the store and releases resources.
	Close() error
}
