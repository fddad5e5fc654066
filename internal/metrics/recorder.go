package metrics

import "time"

// ResultLabel enumerates command result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailure ResultLabel = "failure"
)

// Recorder defines observability hooks for command dispatch.
type Recorder interface {
	ObserveCommandDuration(command string, d time.Duration)
	IncCommandResult(command string, result ResultLabel)
	IncParseFailure(kind string) // kind: empty_command|unknown_command|invalid_arguments
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveCommandDuration(string, time.Duration) {}
func (NoopRecorder) IncCommandResult(string, ResultLabel)         {}
func (NoopRecorder) IncParseFailure(string)                       {}
