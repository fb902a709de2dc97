package build

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/blogbuilder/internal/incremental"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/observability"
	"git.home.luguber.info/inful/blogbuilder/internal/render"
)

// stageThemeCheck parses the templates and decides, once for the whole run, whether any
// theme dependency changed since the last build.
func stageThemeCheck(ctx context.Context, st *State) error {
	r, err := render.NewRenderer(st.paths.Templates)
	if err != nil {
		return newFatalStageError(StageThemeCheck, err)
	}
	st.renderer = r
	for _, name := range r.Overridden() {
		observability.DebugContext(ctx, "Using template override", logfields.Template(name))
	}

	deps, err := incremental.ResolveThemeDependencies(incremental.ThemeInputs{
		WorkDir:      st.cfg.BaseDir(),
		Stylesheet:   st.paths.Stylesheet,
		TemplatesDir: st.paths.Templates,
		Globs:        st.cfg.Build.ThemeGlobs,
		Embedded:     render.EmbeddedTemplates(),
		ConfigFile:   st.paths.ConfigFile,
		Executable:   st.executable,
	})
	if err != nil {
		// Without a reliable dependency set every page is treated as stale and nothing is
		// recorded, so the next run compares against an empty bucket again.
		observability.WarnContext(ctx, "Failed to resolve theme dependencies", logfields.Error(err))
		st.Theme = incremental.ThemeCheck{Changed: true, Hashes: map[string]string{}}
		st.Report.ThemeChanged = true
		st.Agg.MarkThemeChanged()
		return newWarnStageError(StageThemeCheck, err)
	}

	st.Theme = incremental.CheckTheme(deps, st.Old.Templates)
	st.Report.ThemeChanged = st.Theme.Changed
	st.Report.ThemeChangedKeys = st.Theme.ChangedKeys
	if !st.Theme.Changed {
		observability.DebugContext(ctx, "Theme unchanged", logfields.Count(len(deps)))
		return nil
	}

	st.Agg.MarkThemeChanged()
	if st.FirstBuild {
		return nil
	}
	for _, key := range st.Theme.ChangedKeys {
		observability.InfoContext(ctx, "Theme dependency changed", logfields.Dependency(key))
	}
	observability.InfoContext(ctx, "Theme changed, every page will be rebuilt",
		slog.Int("changed", len(st.Theme.ChangedKeys)))
	return nil
}
