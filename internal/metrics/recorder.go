package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines observability hooks for a build run.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncBuildOutcome(outcome string) // outcome: success|warning|failed|canceled
	// IncDocument counts a classified source document by staleness reason.
	IncDocument(reason string)
	// IncPageRendered counts a written page by kind (post, about, 404, home, tag, ...).
	IncPageRendered(kind string)
	IncPageFailed(kind string)
	AddOrphansRemoved(n int)
	SetAggregatesRebuilt(rebuilt bool)
	SetManifestEntries(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncBuildOutcome(string)                     {}
func (NoopRecorder) IncDocument(string)                         {}
func (NoopRecorder) IncPageRendered(string)                     {}
func (NoopRecorder) IncPageFailed(string)                       {}
func (NoopRecorder) AddOrphansRemoved(int)                      {}
func (NoopRecorder) SetAggregatesRebuilt(bool)                  {}
func (NoopRecorder) SetManifestEntries(int)                     {}
