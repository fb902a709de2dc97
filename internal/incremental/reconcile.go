package incremental

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/manifest"
	"git.home.luguber.info/inful/blogbuilder/internal/util/sets"
)

// ErrEscapesOutput is returned for links that resolve outside the output root.
var ErrEscapesOutput = errors.New("link escapes output root")

// Reconciler removes the outputs of documents that no longer exist or moved.
type Reconciler struct {
	root   string
	logger *slog.Logger
}

func NewReconciler(outputRoot string, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{root: filepath.Clean(outputRoot), logger: logger}
}

// ReconcileResult reports one reconciliation pass.
type ReconcileResult struct {
	// Orphans are the manifest paths without a source this run.
	Orphans []string
	// Removed are the filesystem locations deleted.
	Removed []string
	// Warnings are removal failures; the orphaned entries are dropped regardless.
	Warnings []error
}

// Orphans returns the manifest paths that have no current source, sorted.
func (r *Reconciler) Orphans(old *manifest.Manifest, current sets.Set[string]) []string {
	if old == nil {
		return nil
	}
	return sets.Sorted(sets.FromKeys(old.Posts).Difference(current))
}

// Reconcile deletes the outputs of every orphan.
func (r *Reconciler) Reconcile(old *manifest.Manifest, current sets.Set[string]) ReconcileResult {
	var res ReconcileResult
	res.Orphans = r.Orphans(old, current)
	for _, path := range res.Orphans {
		out := old.Posts[path].Output
		removed, err := r.remove(out)
		res.Removed = append(res.Removed, removed...)
		if err != nil {
			cerr := ferrors.WrapError(err, ferrors.CategoryFileSystem, "remove orphaned output").
				Warning().
				Ignore().
				WithContext("path", path).
				WithContext("link", out.String()).
				Build()
			r.logger.Warn("Failed to remove orphaned output",
				logfields.Path(path), logfields.Link(out.String()), logfields.Error(err))
			res.Warnings = append(res.Warnings, cerr)
			continue
		}
		r.logger.Info("Deleted orphaned document", logfields.Path(path), logfields.Link(out.String()))
	}
	return res
}

// RemoveRenamed deletes the old location of a document whose output moved. It reports
// whether anything was removed.
func (r *Reconciler) RemoveRenamed(oldOut, newOut manifest.Output) (bool, error) {
	if !oldOut.Known() || !newOut.Known() || oldOut == newOut {
		return false, nil
	}
	if _, ok := oldOut.Link(); !ok {
		return false, nil
	}
	removed, err := r.remove(oldOut)
	if err != nil {
		return len(removed) > 0, ferrors.WrapError(err, ferrors.CategoryFileSystem, "remove renamed output").
			Warning().
			Ignore().
			WithContext("link", oldOut.String()).
			Build()
	}
	return len(removed) > 0, nil
}

// remove deletes the locations an output resolves to. Sentinel outputs resolve to nothing.
func (r *Reconciler) remove(out manifest.Output) ([]string, error) {
	link, ok := out.Link()
	if !ok {
		return nil, nil
	}
	targets, err := r.resolve(link)
	if err != nil {
		return nil, err
	}

	var removed []string
	var errs []error
	for _, target := range targets {
		fi, err := os.Lstat(target)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if fi.IsDir() {
			err = os.RemoveAll(target)
		} else {
			err = os.Remove(target)
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		removed = append(removed, target)
	}
	return removed, errors.Join(errs...)
}

// resolve maps an output link to filesystem locations under the root. A legacy
// "posts/x.html" link also covers the "posts/x/" directory of the current layout.
func (r *Reconciler) resolve(link string) ([]string, error) {
	link = strings.TrimLeft(filepath.ToSlash(link), "/")
	primary, err := r.within(link)
	if err != nil {
		return nil, err
	}
	targets := []string{primary}
	if strings.HasSuffix(link, ".html") && filepath.Base(link) != "index.html" {
		dir, err := r.within(strings.TrimSuffix(link, ".html"))
		if err != nil {
			return nil, err
		}
		targets = append(targets, dir)
	}
	return targets, nil
}

func (r *Reconciler) within(link string) (string, error) {
	target := filepath.Join(r.root, filepath.FromSlash(link))
	rel, err := filepath.Rel(r.root, target)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrEscapesOutput, link)
	}
	return target, nil
}
