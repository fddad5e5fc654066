package dispatch

import (
	"errors"
	"time"

	ferrors "git.home.luguber.info/inful/cmdcenter/internal/foundation/errors"
)

// Phase is a step of the invocation pipeline.
type Phase string

const (
	PhaseReceived  Phase = "received"
	PhaseTokenized Phase = "tokenized"
	PhaseResolved  Phase = "resolved"
	PhaseExecuting Phase = "executing"
	PhaseEvaluated Phase = "evaluated"
)

// ErrorKind classifies why an invocation failed.
type ErrorKind string

const (
	KindNone             ErrorKind = ""
	KindEmptyCommand     ErrorKind = "empty_command"
	KindUnknownCommand   ErrorKind = "unknown_command"
	KindInvalidArguments ErrorKind = "invalid_arguments"
	KindExecutionFailure ErrorKind = "execution_failure"
)

// ParseStage reports whether the kind is raised before execution starts.
func (k ErrorKind) ParseStage() bool {
	return k == KindEmptyCommand || k == KindUnknownCommand || k == KindInvalidArguments
}

// Outcome is the structured result of one evaluated invocation.
type Outcome struct {
	ID        string        `json:"id"`
	Command   string        `json:"command"`
	Name      string        `json:"name,omitempty"`
	Args      []string      `json:"args,omitempty"`
	Success   bool          `json:"success"`
	Kind      ErrorKind     `json:"kind,omitempty"`
	Reason    string        `json:"reason,omitempty"`
	Reached   Phase         `json:"reached"` // furthest phase entered before evaluation
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	// StateFingerprint digests the build context after evaluation.
	StateFingerprint string `json:"state_fingerprint"`

	Err error `json:"-"`
}

// Phase is always PhaseEvaluated for a returned Outcome.
func (o Outcome) Phase() Phase { return PhaseEvaluated }

func kindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrExecutionFailure):
		return KindExecutionFailure
	case errors.Is(err, ErrEmptyCommand):
		return KindEmptyCommand
	case errors.Is(err, ErrUnknownCommand):
		return KindUnknownCommand
	case errors.Is(err, ErrInvalidArguments):
		return KindInvalidArguments
	default:
		return KindExecutionFailure
	}
}

// reasonOf renders the failure for humans, without the category prefix.
func reasonOf(err error) string {
	if err == nil {
		return ""
	}
	if classified, ok := ferrors.AsClassified(err); ok {
		if cause := classified.Cause(); cause != nil {
			return classified.Message() + ": " + reasonOf(cause)
		}
		return classified.Message()
	}
	return err.Error()
}
