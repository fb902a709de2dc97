package build

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/version"
)

// Report file names, written to the state directory.
const (
	ReportJSONFile = "build-report.json"
	ReportTextFile = "build-report.txt"
)

// BuildOutcome is the typed enumeration of final build result states.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeWarning  BuildOutcome = "warning"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// Report captures what one build run decided and did.
type Report struct {
	SchemaVersion   int
	BuildID         string
	Start           time.Time
	End             time.Time
	Errors          []error // fatal errors causing build abortion (at most one)
	Warnings        []error // non-fatal issues
	StageDurations  map[string]time.Duration
	StageErrorKinds map[StageName]StageErrorKind
	StageCounts     map[StageName]StageCount

	// Documents counts discovered sources; Excluded those missing a title or date.
	Documents int
	Excluded  int
	// Skipped counts documents whose page was left untouched.
	Skipped       int
	RenderedPages int
	FailedPages   int
	// Deleted counts filesystem locations removed for orphaned or renamed documents.
	Deleted      int
	StaticCopied int
	// Reasons counts documents per staleness reason.
	Reasons map[string]int

	ThemeChanged      bool
	ThemeChangedKeys  []string
	AggregatesRebuilt bool
	AggregateReasons  []string
	ManifestPersisted bool

	Outcome BuildOutcome
	Issues  []ReportIssue
	Version string
}

// NewReport starts a report for a build.
func NewReport(buildID string, start time.Time) *Report {
	return &Report{
		SchemaVersion:   1,
		BuildID:         buildID,
		Start:           start,
		StageDurations:  make(map[string]time.Duration),
		StageErrorKinds: make(map[StageName]StageErrorKind),
		StageCounts:     make(map[StageName]StageCount),
		Reasons:         make(map[string]int),
		Version:         version.Version,
	}
}

// ReportIssueCode enumerates machine-parseable issue identifiers. Codes are a stable
// contract: append only.
type ReportIssueCode string

const (
	IssueContentRootMissing   ReportIssueCode = "CONTENT_ROOT_MISSING"
	IssueDocumentUnreadable   ReportIssueCode = "DOCUMENT_UNREADABLE"
	IssueDocumentExcluded     ReportIssueCode = "DOCUMENT_EXCLUDED"
	IssueFrontMatter          ReportIssueCode = "FRONT_MATTER"
	IssueTemplateInvalid      ReportIssueCode = "TEMPLATE_INVALID"
	IssueRenderFailure        ReportIssueCode = "RENDER_FAILURE"
	IssueAggregateFailure     ReportIssueCode = "AGGREGATE_FAILURE"
	IssueCleanupFailure       ReportIssueCode = "CLEANUP_FAILURE"
	IssueStaticCopyFailure    ReportIssueCode = "STATIC_COPY_FAILURE"
	IssueManifestSaveFailure  ReportIssueCode = "MANIFEST_SAVE_FAILURE"
	IssueCanceled             ReportIssueCode = "BUILD_CANCELED"
	IssueGenericStageError    ReportIssueCode = "GENERIC_STAGE_ERROR"
	IssueThemeResolutionError ReportIssueCode = "THEME_RESOLUTION"
)

// IssueSeverity represents normalized severity levels.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// ReportIssue is a structured entry describing a discrete problem encountered.
type ReportIssue struct {
	Code     ReportIssueCode `json:"code"`
	Stage    StageName       `json:"stage"`
	Severity IssueSeverity   `json:"severity"`
	Message  string          `json:"message"`
	Path     string          `json:"path,omitempty"`
}

// AddIssue appends a structured issue and mirrors severity into Errors/Warnings.
func (r *Report) AddIssue(code ReportIssueCode, stage StageName, severity IssueSeverity, path, msg string, err error) {
	r.Issues = append(r.Issues, ReportIssue{Code: code, Stage: stage, Severity: severity, Message: msg, Path: path})
	if err == nil {
		return
	}
	switch severity {
	case SeverityError:
		r.Errors = append(r.Errors, err)
	case SeverityWarning:
		r.Warnings = append(r.Warnings, err)
	}
}

// StageCount aggregates counts of outcomes for a stage.
type StageCount struct {
	Success  int
	Warning  int
	Fatal    int
	Canceled int
}

// Finish sets the end time of the report.
func (r *Report) Finish(end time.Time) { r.End = end }

// RecordStageResult updates the counters and emits metrics.
func (r *Report) RecordStageResult(stage StageName, res StageResult, recorder metrics.Recorder) {
	if r.StageCounts == nil {
		r.StageCounts = make(map[StageName]StageCount)
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	sc := r.StageCounts[stage]
	switch res {
	case StageResultSuccess:
		sc.Success++
		recorder.IncStageResult(string(stage), metrics.ResultSuccess)
	case StageResultWarning:
		sc.Warning++
		recorder.IncStageResult(string(stage), metrics.ResultWarning)
	case StageResultFatal:
		sc.Fatal++
		recorder.IncStageResult(string(stage), metrics.ResultFatal)
	case StageResultCanceled:
		sc.Canceled++
		recorder.IncStageResult(string(stage), metrics.ResultCanceled)
	case StageResultSkipped:
	}
	r.StageCounts[stage] = sc
}

// Summary returns a human-readable single-line summary.
func (r *Report) Summary() string {
	dur := r.End.Sub(r.Start)
	return fmt.Sprintf("documents=%d rendered=%d skipped=%d excluded=%d deleted=%d failed=%d aggregates=%t theme_changed=%t duration=%s errors=%d warnings=%d outcome=%s",
		r.Documents, r.RenderedPages, r.Skipped, r.Excluded, r.Deleted, r.FailedPages,
		r.AggregatesRebuilt, r.ThemeChanged, dur.Truncate(time.Millisecond),
		len(r.Errors), len(r.Warnings), string(r.Outcome))
}

// DeriveOutcome sets Outcome from the recorded errors and warnings.
func (r *Report) DeriveOutcome() {
	if len(r.Errors) > 0 {
		for _, e := range r.Errors {
			var se *StageError
			if errors.As(e, &se) && se.Kind == StageErrorCanceled {
				r.Outcome = OutcomeCanceled
				return
			}
		}
		r.Outcome = OutcomeFailed
		return
	}
	if len(r.Warnings) > 0 {
		r.Outcome = OutcomeWarning
		return
	}
	r.Outcome = OutcomeSuccess
}

// Persist writes build-report.json and build-report.txt atomically into root.
func (r *Report) Persist(root string) error {
	if r.End.IsZero() {
		r.Finish(time.Now())
		r.DeriveOutcome()
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return fmt.Errorf("ensure root for report: %w", err)
	}
	jb, err := json.MarshalIndent(r.SanitizedCopy(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	if err := writeAtomic(filepath.Join(root, ReportJSONFile), append(jb, '\n')); err != nil {
		return fmt.Errorf("write report json: %w", err)
	}
	if err := writeAtomic(filepath.Join(root, ReportTextFile), []byte(r.Summary()+"\n")); err != nil {
		return fmt.Errorf("write report summary: %w", err)
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// SanitizedCopy converts errors to strings and maps to string keys for JSON output.
func (r *Report) SanitizedCopy() *ReportSerializable {
	stageCounts := make(map[string]StageCount, len(r.StageCounts))
	for k, v := range r.StageCounts {
		stageCounts[string(k)] = v
	}
	sek := make(map[string]string, len(r.StageErrorKinds))
	for k, v := range r.StageErrorKinds {
		sek[string(k)] = string(v)
	}
	durations := make(map[string]float64, len(r.StageDurations))
	for k, v := range r.StageDurations {
		durations[k] = float64(v.Microseconds()) / 1000
	}
	issues := r.Issues
	if issues == nil {
		issues = []ReportIssue{}
	}
	themeKeys := append([]string{}, r.ThemeChangedKeys...)
	sort.Strings(themeKeys)

	s := &ReportSerializable{
		SchemaVersion:     r.SchemaVersion,
		BuildID:           r.BuildID,
		Start:             r.Start,
		End:               r.End,
		Errors:            make([]string, len(r.Errors)),
		Warnings:          make([]string, len(r.Warnings)),
		StageDurationsMS:  durations,
		StageErrorKinds:   sek,
		StageCounts:       stageCounts,
		Documents:         r.Documents,
		Excluded:          r.Excluded,
		Skipped:           r.Skipped,
		RenderedPages:     r.RenderedPages,
		FailedPages:       r.FailedPages,
		Deleted:           r.Deleted,
		StaticCopied:      r.StaticCopied,
		Reasons:           r.Reasons,
		ThemeChanged:      r.ThemeChanged,
		ThemeChangedKeys:  themeKeys,
		AggregatesRebuilt: r.AggregatesRebuilt,
		AggregateReasons:  append([]string{}, r.AggregateReasons...),
		ManifestPersisted: r.ManifestPersisted,
		Outcome:           string(r.Outcome),
		Issues:            issues,
		Version:           r.Version,
	}
	for i, e := range r.Errors {
		s.Errors[i] = e.Error()
	}
	for i, w := range r.Warnings {
		s.Warnings[i] = w.Error()
	}
	return s
}

// ReportSerializable mirrors Report with string errors for JSON output.
type ReportSerializable struct {
	SchemaVersion     int                   `json:"schema_version"`
	BuildID           string                `json:"build_id"`
	Start             time.Time             `json:"start"`
	End               time.Time             `json:"end"`
	Errors            []string              `json:"errors"`
	Warnings          []string              `json:"warnings"`
	StageDurationsMS  map[string]float64    `json:"stage_durations_ms"`
	StageErrorKinds   map[string]string     `json:"stage_error_kinds"`
	StageCounts       map[string]StageCount `json:"stage_counts"`
	Documents         int                   `json:"documents"`
	Excluded          int                   `json:"excluded"`
	Skipped           int                   `json:"skipped"`
	RenderedPages     int                   `json:"rendered_pages"`
	FailedPages       int                   `json:"failed_pages"`
	Deleted           int                   `json:"deleted"`
	StaticCopied      int                   `json:"static_copied"`
	Reasons           map[string]int        `json:"reasons"`
	ThemeChanged      bool                  `json:"theme_changed"`
	ThemeChangedKeys  []string              `json:"theme_changed_keys"`
	AggregatesRebuilt bool                  `json:"aggregates_rebuilt"`
	AggregateReasons  []string              `json:"aggregate_reasons"`
	ManifestPersisted bool                  `json:"manifest_persisted"`
	Outcome           string                `json:"outcome"`
	Issues            []ReportIssue         `json:"issues"`
	Version           string                `json:"version,omitempty"`
}
