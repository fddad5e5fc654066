package eventstore

import (
	"encoding/json"
	"time"
)

// Event type names.
const (
	TypeSessionStarted      = "SessionStarted"
	TypeInvocationEvaluated = "InvocationEvaluated"
	TypeSessionEnded        = "SessionEnded"
)

// SessionStarted is the payload of TypeSessionStarted.
type SessionStarted struct {
	WorkDir string `json:"work_dir"`
	Config  string `json:"config,omitempty"`
}

// InvocationRecord is the payload of TypeInvocationEvaluated.
type InvocationRecord struct {
	InvocationID string        `json:"invocation_id"`
	Command      string        `json:"command"`
	Name         string        `json:"name,omitempty"`
	Args         []string      `json:"args,omitempty"`
	Success      bool          `json:"success"`
	Kind         string        `json:"kind,omitempty"`
	Reason       string        `json:"reason,omitempty"`
	Duration     time.Duration `json:"duration_ns"`
	Fingerprint  string        `json:"state_fingerprint,omitempty"`
}

// SessionEnded is the payload of TypeSessionEnded.
type SessionEnded struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Marshal encodes a payload, classifying failures as ErrMarshalPayloadFailed.
func Marshal(eventType string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, ErrMarshalPayloadFailed.WithCause(err).WithContext("event_type", eventType)
	}
	return data, nil
}
