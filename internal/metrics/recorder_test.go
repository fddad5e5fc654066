package metrics

import (
	"testing"
	"time"
)

type testRecorder struct {
	durations     map[string]int
	results       map[string]map[ResultLabel]int
	parseFailures map[string]int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{durations: map[string]int{}, results: map[string]map[ResultLabel]int{}, parseFailures: map[string]int{}}
}

func (t *testRecorder) ObserveCommandDuration(command string, _ time.Duration) {
	t.durations[command]++
}
func (t *testRecorder) IncCommandResult(command string, result ResultLabel) {
	m, ok := t.results[command]
	if !ok {
		m = map[ResultLabel]int{}
		t.results[command] = m
	}
	m[result]++
}
func (t *testRecorder) IncParseFailure(kind string) { t.parseFailures[kind]++ }

func TestRecorderInterfaceSatisfied(t *testing.T) {
	var _ Recorder = NoopRecorder{}
	var _ Recorder = (*PrometheusRecorder)(nil)

	var r Recorder = newTestRecorder()
	r.ObserveCommandDuration("build", time.Millisecond)
	r.IncCommandResult("build", ResultSuccess)
	r.IncCommandResult("build", ResultFailure)
	r.IncParseFailure("unknown_command")

	tr := r.(*testRecorder)
	if tr.durations["build"] != 1 {
		t.Fatalf("expected one duration observation, got %d", tr.durations["build"])
	}
	if tr.results["build"][ResultSuccess] != 1 || tr.results["build"][ResultFailure] != 1 {
		t.Fatalf("unexpected results: %v", tr.results)
	}
	if tr.parseFailures["unknown_command"] != 1 {
		t.Fatalf("unexpected parse failures: %v", tr.parseFailures)
	}
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.ObserveCommandDuration("build", time.Second)
	pr.IncCommandResult("build", ResultSuccess)
	pr.IncParseFailure("empty_command")
}
