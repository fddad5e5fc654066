package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once            sync.Once
	commandDuration *prom.HistogramVec
	commandResults  *prom.CounterVec
	parseFailures   *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.commandDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "cmdcenter",
			Name:      "command_duration_seconds",
			Help:      "Duration of executed commands",
			Buckets:   prom.DefBuckets,
		}, []string{"command"})
		pr.commandResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "cmdcenter",
			Name:      "command_results_total",
			Help:      "Executed command counts by result",
		}, []string{"command", "result"})
		pr.parseFailures = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "cmdcenter",
			Name:      "parse_failures_total",
			Help:      "Invocations rejected before execution, by kind",
		}, []string{"kind"})
		reg.MustRegister(pr.commandDuration, pr.commandResults, pr.parseFailures)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveCommandDuration(command string, d time.Duration) {
	if p == nil || p.commandDuration == nil {
		return
	}
	p.commandDuration.WithLabelValues(command).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncCommandResult(command string, result ResultLabel) {
	if p == nil || p.commandResults == nil {
		return
	}
	p.commandResults.WithLabelValues(command, string(result)).Inc()
}

func (p *PrometheusRecorder) IncParseFailure(kind string) {
	if p == nil || p.parseFailures == nil {
		return
	}
	p.parseFailures.WithLabelValues(kind).Inc()
}
