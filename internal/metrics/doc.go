// Package metrics provides observability hooks for orgbuilder runs.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics collection never requires nil checks:
//
//	gen := graph.NewGenerator(opts) // uses NoopRecorder
//	opts.Recorder = metrics.NewPrometheusRecorder(reg)
//
// One-shot CLI runs can persist the registry for node_exporter's textfile
// collector with WriteTextfile; watch mode serves it with HTTPHandler.
package metrics
