package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveCommandDuration("build", 150*time.Millisecond)
	pr.IncCommandResult("build", ResultSuccess)
	pr.IncCommandResult("build", ResultSuccess)
	pr.IncCommandResult("copy", ResultFailure)
	pr.IncParseFailure("unknown_command")

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, mfs)

	assert.InDelta(t, 2, counterValue(t, reg, "cmdcenter_command_results_total", "build", "success"), 0)
	assert.InDelta(t, 1, counterValue(t, reg, "cmdcenter_command_results_total", "copy", "failure"), 0)
	assert.InDelta(t, 1, counterValue(t, reg, "cmdcenter_parse_failures_total", "unknown_command"), 0)
}

// counterValue finds the counter of family name whose label values equal values, in order.
func counterValue(t *testing.T, reg *prom.Registry, name string, values ...string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := m.GetLabel()
			if len(labels) != len(values) {
				continue
			}
			match := true
			for i, l := range labels {
				if l.GetValue() != values[i] {
					match = false
					break
				}
			}
			if match {
				return m.GetCounter().GetValue()
			}
		}
	}
	t.Fatalf("metric %s%v not found", name, values)
	return 0
}

func TestHTTPHandlerServesRegistry(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncCommandResult("status", ResultSuccess)

	srv := httptest.NewServer(HTTPHandler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "cmdcenter_command_results_total"))
}
