package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/blogbuilder/internal/build"
	"git.home.luguber.info/inful/blogbuilder/internal/config"
	ferrors "git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output      string `short:"o" help:"Output directory, overrides paths.output"`
	Concurrency int    `help:"Pages rendered in parallel, overrides build.concurrency"`
	Full        bool   `help:"Ignore the manifest and rebuild everything"`
	NoColor     bool   `name:"no-color" help:"Disable colored output"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	b.apply(cfg)
	logger := root.configureLogging(g, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	reg := prom.NewRegistry()
	if cfg.Metrics.Textfile != "" {
		recorder = metrics.NewPrometheusRecorder(reg)
	}

	builder, err := build.New(cfg,
		build.WithLogger(logger),
		build.WithRecorder(recorder),
		build.WithFullRebuild(b.Full),
	)
	if err != nil {
		return err
	}
	report, runErr := builder.Run(ctx)

	if cfg.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(cfg.Resolve(cfg.Metrics.Textfile), reg); err != nil {
			logger.Warn("Failed to write metrics", logfields.Path(cfg.Metrics.Textfile), logfields.Error(err))
		}
	}

	newPrinter(os.Stdout, b.NoColor).summary(report)
	return classifyRunError(runErr)
}

// apply lets flags override the configuration.
func (b *BuildCmd) apply(cfg *config.Config) {
	if b.Output != "" {
		cfg.Paths.Output = b.Output
	}
	if b.Concurrency > 0 {
		cfg.Build.Concurrency = b.Concurrency
	}
}

// classifyRunError maps the error that stopped a build to a CLI error category.
func classifyRunError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := ferrors.AsClassified(err); ok {
		return err
	}
	var se *build.StageError
	if errors.As(err, &se) && se.Kind == build.StageErrorCanceled {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "build canceled").Build()
	}
	if errors.Is(err, build.ErrDiscovery) {
		return ferrors.WrapError(err, ferrors.CategoryNotFound, "content directory unavailable").
			Fatal().
			UserAction().
			Build()
	}
	return ferrors.WrapError(err, ferrors.CategoryBuild, fmt.Sprintf("build failed in stage %s", stageOf(err))).
		Fatal().
		Build()
}

func stageOf(err error) string {
	var se *build.StageError
	if errors.As(err, &se) {
		return string(se.Stage)
	}
	return "unknown"
}
