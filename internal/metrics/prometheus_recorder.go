package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "blogbuilder"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration      *prom.HistogramVec
	buildDuration      prom.Histogram
	stageResults       *prom.CounterVec
	buildOutcome       *prom.CounterVec
	documents          *prom.CounterVec
	pagesRendered      *prom.CounterVec
	pagesFailed        *prom.CounterVec
	orphansRemoved     prom.Counter
	aggregatesRebuilt  prom.Gauge
	manifestEntries    prom.Gauge
	lastBuildTimestamp prom.Gauge
}

// NewPrometheusRecorder constructs the metrics and registers them on reg. A nil reg gets
// a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		documents: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Source documents by staleness reason",
		}, []string{"reason"}),
		pagesRendered: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pages_rendered_total",
			Help:      "Pages written by kind",
		}, []string{"kind"}),
		pagesFailed: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pages_failed_total",
			Help:      "Pages that failed to render by kind",
		}, []string{"kind"}),
		orphansRemoved: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "orphans_removed_total",
			Help:      "Outputs removed because their source disappeared",
		}),
		aggregatesRebuilt: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "aggregates_rebuilt",
			Help:      "1 when the last build regenerated the aggregate pages",
		}),
		manifestEntries: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "manifest_entries",
			Help:      "Documents recorded in the persisted manifest",
		}),
		lastBuildTimestamp: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_build_timestamp_seconds",
			Help:      "Unix time the last build finished",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.stageResults, pr.buildOutcome,
		pr.documents, pr.pagesRendered, pr.pagesFailed, pr.orphansRemoved,
		pr.aggregatesRebuilt, pr.manifestEntries, pr.lastBuildTimestamp)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
	p.lastBuildTimestamp.SetToCurrentTime()
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncDocument(reason string) {
	if p == nil || p.documents == nil {
		return
	}
	p.documents.WithLabelValues(reason).Inc()
}

func (p *PrometheusRecorder) IncPageRendered(kind string) {
	if p == nil || p.pagesRendered == nil {
		return
	}
	p.pagesRendered.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) IncPageFailed(kind string) {
	if p == nil || p.pagesFailed == nil {
		return
	}
	p.pagesFailed.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) AddOrphansRemoved(n int) {
	if p == nil || p.orphansRemoved == nil || n <= 0 {
		return
	}
	p.orphansRemoved.Add(float64(n))
}

func (p *PrometheusRecorder) SetAggregatesRebuilt(rebuilt bool) {
	if p == nil || p.aggregatesRebuilt == nil {
		return
	}
	if rebuilt {
		p.aggregatesRebuilt.Set(1)
		return
	}
	p.aggregatesRebuilt.Set(0)
}

func (p *PrometheusRecorder) SetManifestEntries(n int) {
	if p == nil || p.manifestEntries == nil {
		return
	}
	p.manifestEntries.Set(float64(n))
}

// WriteTextfile writes everything gathered from g to path in the Prometheus text format,
// creating the parent directory. The file is replaced atomically.
func WriteTextfile(path string, g prom.Gatherer) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prom.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
