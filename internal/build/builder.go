package build

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/content"
	ferrors "git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/incremental"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/manifest"
	"git.home.luguber.info/inful/blogbuilder/internal/markdown"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/observability"
	"git.home.luguber.info/inful/blogbuilder/internal/render"
	"git.home.luguber.info/inful/blogbuilder/internal/util/sets"
)

// PageWriter stores a generated file at an output-relative slash path.
type PageWriter interface {
	Write(rel string, content []byte) (string, error)
}

// Builder runs incremental builds for one configuration.
type Builder struct {
	cfg           *config.Config
	logger        *slog.Logger
	recorder      metrics.Recorder
	observers     []Observer
	writer        PageWriter
	fullRebuild   bool
	now           func() time.Time
	newID         func() string
	executable    string
	executableSet bool
}

// Option configures a Builder.
type Option func(*Builder)

func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) {
		if r != nil {
			b.recorder = r
		}
	}
}

// WithObserver adds an observer notified around every stage.
func WithObserver(o Observer) Option {
	return func(b *Builder) {
		if o != nil {
			b.observers = append(b.observers, o)
		}
	}
}

// WithPageWriter replaces the writer used for every generated page and feed. The default
// writes under the output directory.
func WithPageWriter(w PageWriter) Option {
	return func(b *Builder) { b.writer = w }
}

// WithFullRebuild ignores the previous manifest.
func WithFullRebuild(full bool) Option {
	return func(b *Builder) { b.fullRebuild = full }
}

// WithClock sets the time source used for build timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// WithExecutable sets the builder binary hashed as a theme dependency; "" disables it.
func WithExecutable(path string) Option {
	return func(b *Builder) {
		b.executable = path
		b.executableSet = true
	}
}

// New prepares a builder. Nothing is read until Run.
func New(cfg *config.Config, opts ...Option) (*Builder, error) {
	if cfg == nil {
		return nil, ferrors.ConfigError("configuration required").Build()
	}
	b := &Builder{
		cfg:      cfg,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(b)
	}
	if !b.executableSet && cfg.TrackExecutable() {
		if exe, err := os.Executable(); err == nil {
			b.executable = exe
		}
	}
	return b, nil
}

func (b *Builder) pipeline() []StageDef {
	return NewPipeline().
		Add(StageEnsureDirs, stageEnsureDirs).
		Add(StageStaticAssets, stageStaticAssets).
		Add(StageThemeCheck, stageThemeCheck).
		Add(StageClassify, stageClassify).
		Add(StageReconcile, stageReconcile).
		Add(StageWiden, stageWiden).
		Add(StageRenderPages, stageRenderPages).
		Add(StageAggregates, stageAggregates).
		Add(StagePersistManifest, stagePersistManifest).
		Build()
}

// Run executes one build. The returned report is never nil; the error is the fatal or
// canceled stage error that stopped the run.
func (b *Builder) Run(ctx context.Context) (*Report, error) {
	start := b.now()
	id := b.newID()
	report := NewReport(id, start)

	ctx = observability.WithLogger(ctx, b.logger)
	ctx = observability.WithBuildID(ctx, id)

	st := b.newState(report, start)
	observability.InfoContext(ctx, "Build started",
		logfields.Output(st.paths.Output),
		slog.Bool("first_build", st.FirstBuild),
		slog.Bool("full", b.fullRebuild))

	runErr := runStages(ctx, st, b.pipeline())

	report.Finish(b.now())
	report.DeriveOutcome()
	st.observer.OnBuildComplete(report)

	if err := report.Persist(st.paths.State); err != nil {
		observability.WarnContext(ctx, "Failed to persist build report", logfields.Error(err))
	}

	attrs := []slog.Attr{
		slog.String("outcome", string(report.Outcome)),
		slog.Int("rendered", report.RenderedPages),
		slog.Int("skipped", report.Skipped),
		slog.Int("deleted", report.Deleted),
		slog.Bool("aggregates", report.AggregatesRebuilt),
		logfields.DurationMS(float64(report.End.Sub(report.Start).Microseconds()) / 1000),
	}
	if runErr != nil {
		observability.ErrorContext(ctx, "Build failed", append(attrs, logfields.Error(runErr))...)
	} else {
		observability.InfoContext(ctx, "Build finished", attrs...)
	}
	return report, runErr
}

func (b *Builder) newState(report *Report, start time.Time) *State {
	paths := resolvePaths(b.cfg)
	store := manifest.NewStore(paths.Manifest, manifest.WithLogger(b.logger))

	old := manifest.New()
	if !b.fullRebuild {
		old = store.Load()
	}

	writer := b.writer
	if writer == nil {
		writer = render.FileWriter{Root: paths.Output}
	}
	observers := multiObserver{RecorderObserver{Recorder: b.recorder}}
	observers = append(observers, b.observers...)

	workers := b.cfg.Build.Concurrency
	if workers < 1 {
		workers = 1
	}

	st := &State{
		cfg:             b.cfg,
		paths:           paths,
		Report:          report,
		Old:             old,
		New:             manifest.New(),
		FirstBuild:      old.IsEmpty(),
		Docs:            make(map[string]*content.Document),
		Current:         sets.New[string](),
		Classifications: make(map[string]incremental.Classification),
		markdown:        markdown.New(markdown.Options{Slugify: content.Slugify}),
		reconciler:      incremental.NewReconciler(paths.Output, b.logger),
		store:           store,
		writer:          writer,
		recorder:        b.recorder,
		observer:        observers,
		started:         start,
		executable:      b.executable,
		workers:         workers,
		rendered:        make(map[string]markdown.Result),
		modified:        make(map[string]lastModified),
	}
	st.Agg = incremental.NewAggregator(st.FirstBuild)
	if !st.FirstBuild && len(old.Templates) == 0 {
		// An empty templates bucket is left behind by a run whose aggregates failed.
		st.Agg.ForceAggregates(incremental.AggregatePreviousFailure)
	}
	return st
}
