// Package eventstore records session and invocation events so dispatch
// history survives the process and can be summarized later.
package eventstore

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"time"
)

const (
	sessionStatusRunning = "running"
	sessionStatusEnded   = "ended"
)

// CommandCounts tallies the results of one command name.
type CommandCounts struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// SessionSummary is a read model summarizing one session.
type SessionSummary struct {
	SessionID   string                   `json:"session_id"`
	Status      string                   `json:"status"` // "running", "ended"
	StartedAt   time.Time                `json:"started_at"`
	EndedAt     *time.Time               `json:"ended_at,omitempty"`
	WorkDir     string                   `json:"work_dir,omitempty"`
	Invocations int                      `json:"invocations"`
	Succeeded   int                      `json:"succeeded"`
	Failed      int                      `json:"failed"`
	ByCommand   map[string]CommandCounts `json:"by_command"`
	ByKind      map[string]int           `json:"by_kind,omitempty"`
	LastFailure string                   `json:"last_failure,omitempty"`
}

// SessionProjection maintains an in-memory view of session history,
// reconstructed from events stored in the event store.
type SessionProjection struct {
	mu       sync.RWMutex
	store    Store
	sessions map[string]*SessionSummary
	order    []string // session IDs in order of first appearance
}

// NewSessionProjection creates a new projection backed by the given store.
func NewSessionProjection(store Store) *SessionProjection {
	return &SessionProjection{
		store:    store,
		sessions: make(map[string]*SessionSummary),
	}
}

// Rebuild reconstructs the projection from all events in the store.
func (p *SessionProjection) Rebuild(ctx context.Context) error {
	events, err := p.store.GetRange(ctx, time.Time{}, time.Now().Add(time.Hour))
	if err != nil {
		return ErrProjectionRebuildFailed.WithCause(err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.sessions = make(map[string]*SessionSummary)
	p.order = nil
	for _, event := range events {
		p.applyEventLocked(event)
	}
	return nil
}

// Apply processes a single event and updates the projection.
func (p *SessionProjection) Apply(event Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.applyEventLocked(event)
}

func (p *SessionProjection) applyEventLocked(event Event) {
	sessionID := event.SessionID()
	if sessionID == "" {
		return
	}

	summary, exists := p.sessions[sessionID]
	if !exists {
		summary = &SessionSummary{
			SessionID: sessionID,
			Status:    sessionStatusRunning,
			StartedAt: event.Timestamp(),
			ByCommand: make(map[string]CommandCounts),
		}
		p.sessions[sessionID] = summary
		p.order = append(p.order, sessionID)
	}

	switch event.Type() {
	case TypeSessionStarted:
		summary.StartedAt = event.Timestamp()
		var payload SessionStarted
		if err := json.Unmarshal(event.Payload(), &payload); err == nil {
			summary.WorkDir = payload.WorkDir
		}

	case TypeInvocationEvaluated:
		var rec InvocationRecord
		if err := json.Unmarshal(event.Payload(), &rec); err != nil {
			return
		}
		summary.Invocations++
		counts := summary.ByCommand[rec.Name]
		if rec.Success {
			summary.Succeeded++
			counts.Succeeded++
		} else {
			summary.Failed++
			counts.Failed++
			summary.LastFailure = rec.Command
			if rec.Kind != "" {
				if summary.ByKind == nil {
					summary.ByKind = make(map[string]int)
				}
				summary.ByKind[rec.Kind]++
			}
		}
		// Parse failures may not have a resolved name.
		if rec.Name != "" {
			summary.ByCommand[rec.Name] = counts
		}

	case TypeSessionEnded:
		now := event.Timestamp()
		summary.EndedAt = &now
		summary.Status = sessionStatusEnded
	}
}

// Get returns a copy of the summary of one session.
func (p *SessionProjection) Get(sessionID string) (SessionSummary, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.sessions[sessionID]
	if !ok {
		return SessionSummary{}, false
	}
	return copySummary(s), true
}

// History returns all session summaries, newest first.
func (p *SessionProjection) History() []SessionSummary {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]SessionSummary, 0, len(p.order))
	for _, id := range slices.Backward(p.order) {
		out = append(out, copySummary(p.sessions[id]))
	}
	return out
}

func copySummary(s *SessionSummary) SessionSummary {
	c := *s
	c.ByCommand = make(map[string]CommandCounts, len(s.ByCommand))
	for k, v := range s.ByCommand {
		c.ByCommand[k] = v
	}
	if s.ByKind != nil {
		c.ByKind = make(map[string]int, len(s.ByKind))
		for k, v := range s.ByKind {
			c.ByKind[k] = v
		}
	}
	return c
}
