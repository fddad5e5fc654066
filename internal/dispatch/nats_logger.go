package dispatch

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/cmdcenter/internal/foundation/errors"
	"git.home.luguber.info/inful/cmdcenter/internal/logfields"
	"git.home.luguber.info/inful/cmdcenter/internal/retry"
)

// DefaultOutcomeSubject is the subject outcomes are published on when none is configured.
const DefaultOutcomeSubject = "cmdcenter.outcomes"

// ErrNATSConnect is returned when the outcome broker cannot be reached.
var ErrNATSConnect = errors.MessagingError("failed to connect to NATS").Build()

// Publisher is the subset of *nats.Conn the NATSLogger needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// outcomeMessage is the wire form of a published outcome.
type outcomeMessage struct {
	SessionID string `json:"session_id,omitempty"`
	Outcome
	PublishedAt time.Time `json:"published_at"`
}

// NATSLogger publishes each outcome as JSON on a subject. Publish failures
// are logged and never affect the invocation.
type NATSLogger struct {
	pub       Publisher
	conn      *nats.Conn
	subject   string
	sessionID string
}

// NewNATSLogger publishes through pub.
func NewNATSLogger(pub Publisher, subject, sessionID string) *NATSLogger {
	if subject == "" {
		subject = DefaultOutcomeSubject
	}
	return &NATSLogger{pub: pub, subject: subject, sessionID: sessionID}
}

// DialNATS connects to url, retrying per policy, and returns a logger that
// owns the connection.
func DialNATS(ctx context.Context, url, subject, sessionID string, policy retry.Policy) (*NATSLogger, error) {
	if err := policy.Validate(); err != nil {
		return nil, ErrNATSConnect.WithCause(err).WithContext("url", url)
	}
	var conn *nats.Conn
	err := policy.Do(ctx, "nats connect", func() error {
		c, err := nats.Connect(url, nats.Name("cmdcenter"))
		if err != nil {
			return err
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, ErrNATSConnect.WithCause(err).WithContext("url", url)
	}
	l := NewNATSLogger(conn, subject, sessionID)
	l.conn = conn

	slog.Info("NATS outcome publisher connected", slog.String("url", url), logfields.Subject(l.subject))
	return l, nil
}

func (n *NATSLogger) Log(_ context.Context, o Outcome) {
	data, err := json.Marshal(outcomeMessage{SessionID: n.sessionID, Outcome: o, PublishedAt: time.Now()})
	if err != nil {
		slog.Warn("Failed to encode outcome", logfields.InvocationID(o.ID), logfields.Error(err))
		return
	}
	if err := n.pub.Publish(n.subject, data); err != nil {
		slog.Warn("Failed to publish outcome",
			logfields.Subject(n.subject),
			logfields.InvocationID(o.ID),
			logfields.Error(err))
	}
}

// Close drains the connection when the logger owns one.
func (n *NATSLogger) Close() error {
	if n.conn == nil {
		return nil
	}
	return n.conn.Drain()
}
