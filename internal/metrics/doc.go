// Package metrics records build metrics behind a small interface.
//
// Components receive a Recorder and never check for nil: NoopRecorder is the default and
// its methods do nothing. When metrics.textfile is configured the CLI swaps in a
// PrometheusRecorder and, at the end of the run, writes the registry in the node_exporter
// textfile format with WriteTextfile.
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	b, _ := build.New(cfg, build.WithRecorder(rec))
//	_, _ = b.Run(ctx)
//	_ = metrics.WriteTextfile(path, reg)
package metrics
