package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/incremental"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/observability"
	"git.home.luguber.info/inful/blogbuilder/internal/render"
	"git.home.luguber.info/inful/blogbuilder/internal/util/sets"
)

// StaticOutputDir is where the static directory is mirrored inside the output.
const StaticOutputDir = "static"

// stageStaticAssets mirrors the static directory, publishes the fingerprinted stylesheet
// and the CNAME file, and snapshots the site settings now that the stylesheet is known.
func stageStaticAssets(ctx context.Context, st *State) error {
	var errs []error

	errs = append(errs, mirrorStatic(ctx, st)...)

	stylesheet, err := publishStylesheet(ctx, st)
	if err != nil {
		errs = append(errs, err)
	}
	if err := publishCNAME(st); err != nil {
		errs = append(errs, err)
	}

	st.Site = config.NewSite(st.cfg, stylesheet)
	st.URLs = render.NewURLs(st.Site)

	if len(errs) > 0 {
		return newWarnStageError(StageStaticAssets, errors.Join(errs...))
	}
	return nil
}

func mirrorStatic(ctx context.Context, st *State) []error {
	var errs []error
	root := st.paths.Static
	dest := filepath.Join(st.paths.Output, StaticOutputDir)

	if fi, err := os.Stat(root); err != nil || !fi.IsDir() {
		observability.DebugContext(ctx, "No static directory", logfields.Path(root))
	} else {
		err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}
			rel, err := filepath.Rel(root, p)
			if err != nil {
				return err
			}
			key := filepath.ToSlash(rel)
			hash := incremental.HashFile(p)
			if hash == "" {
				errs = append(errs, fmt.Errorf("read static file %s", key))
				st.issue(IssueStaticCopyFailure, StageStaticAssets, SeverityWarning, key, "static file unreadable")
				keepPublished(st, key)
				return nil
			}
			st.New.StaticFiles[key] = hash

			target := filepath.Join(dest, rel)
			if st.Old.StaticFiles[key] == hash && fileExists(target) {
				return nil
			}
			if err := copyFile(p, target); err != nil {
				errs = append(errs, err)
				st.issue(IssueStaticCopyFailure, StageStaticAssets, SeverityWarning, key, err.Error())
				delete(st.New.StaticFiles, key)
				keepPublished(st, key)
				return nil
			}
			st.Report.StaticCopied++
			observability.DebugContext(ctx, "Copied static file", logfields.Path(key))
			return nil
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("walk static directory: %w", err))
		}
	}

	gone := sets.FromKeys(st.Old.StaticFiles).Difference(sets.FromKeys(st.New.StaticFiles))
	for _, key := range sets.Sorted(gone) {
		target := filepath.Join(dest, filepath.FromSlash(key))
		if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove static file %s: %w", key, err))
			st.issue(IssueCleanupFailure, StageStaticAssets, SeverityWarning, key, err.Error())
			continue
		}
		st.Report.Deleted++
		observability.InfoContext(ctx, "Deleted static file", logfields.Path(key))
	}
	return errs
}

// keepPublished carries the previous hash of a static file that could not be refreshed, so
// its published copy is not treated as gone and the copy is retried next run.
func keepPublished(st *State, key string) {
	if h, ok := st.Old.StaticFiles[key]; ok {
		st.New.StaticFiles[key] = h
	}
}

// publishStylesheet copies the stylesheet to assets/style.<sha8>.css and removes older
// fingerprints. It returns the output-relative path, "" when there is no stylesheet.
func publishStylesheet(ctx context.Context, st *State) (string, error) {
	src := st.paths.Stylesheet
	if !fileExists(src) {
		observability.DebugContext(ctx, "No stylesheet", logfields.Path(src))
		return "", nil
	}
	hash := incremental.HashFile(src)
	if hash == "" {
		return "", fmt.Errorf("read stylesheet %s", src)
	}
	name := "style." + hash[:8] + ".css"
	assetsDir := filepath.Join(st.paths.Output, filepath.FromSlash(st.cfg.Output.AssetsDir))
	target := filepath.Join(assetsDir, name)

	if incremental.HashFile(target) != hash {
		if err := copyFile(src, target); err != nil {
			return "", err
		}
		observability.InfoContext(ctx, "Published stylesheet", logfields.Path(name))
	}

	stale, err := doublestar.Glob(os.DirFS(assetsDir), "style.*.css")
	if err != nil {
		return "", fmt.Errorf("list stylesheets: %w", err)
	}
	for _, old := range stale {
		if old == name {
			continue
		}
		if err := os.Remove(filepath.Join(assetsDir, old)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			st.issue(IssueCleanupFailure, StageStaticAssets, SeverityWarning, old, err.Error())
			continue
		}
		st.Report.Deleted++
	}
	return path.Join(st.cfg.Output.AssetsDir, name), nil
}

func publishCNAME(st *State) error {
	src := st.paths.CNAME
	if !fileExists(src) {
		return nil
	}
	target := filepath.Join(st.paths.Output, "CNAME")
	if incremental.HashFile(src) == incremental.HashFile(target) {
		return nil
	}
	return copyFile(src, target)
}

func fileExists(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.Mode().IsRegular()
}

// copyFile copies src to dst through a temporary file, creating parent directories.
func copyFile(src, dst string) error {
	in, err := os.Open(src) // #nosec G304 -- paths come from the configuration
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	// #nosec G301 -- published site directories are world-readable
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", dst, err)
	}
	tmp := dst + ".tmp"
	// #nosec G302 G304 -- published site files are world-readable
	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", dst, err)
	}
	return nil
}
