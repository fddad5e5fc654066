// Package metrics provides the observability hooks of the dispatch center.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics cost nothing until a real implementation is
// injected:
//
//	center, err := dispatch.New(st, dispatch.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// Command names are used as label values only for invocations that resolved
// to a registered command; parse failures are counted by kind so arbitrary
// user input never becomes a label.
package metrics
