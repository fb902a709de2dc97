// Package content finds source documents and turns their front matter into normalized
// metadata.
package content

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"

	cerrors "git.home.luguber.info/inful/blogbuilder/internal/content/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// Source is a discovered document file.
type Source struct {
	Path    string // Absolute or working-directory relative path
	RelPath string // Slash separated path relative to the content root; the document identity
}

// Name returns the file name.
func (s Source) Name() string { return filepath.Base(s.Path) }

// DiscoverOptions controls which files count as sources.
type DiscoverOptions struct {
	Include []string
	// IgnoreFile is a gitignore-syntax file; a missing file ignores nothing.
	IgnoreFile string
	Logger     *slog.Logger
}

// Discover walks root and returns the matching sources sorted by RelPath. Dot directories,
// dot files and symlinks are skipped.
func Discover(root string, opts DiscoverOptions) ([]Source, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	include := opts.Include
	if len(include) == 0 {
		include = []string{"**/*.md"}
	}

	fi, err := os.Stat(root)
	if err != nil || !fi.IsDir() {
		return nil, fmt.Errorf("%w: %s", cerrors.ErrContentRootMissing, root)
	}

	gi, err := loadIgnore(opts.IgnoreFile)
	if err != nil {
		return nil, err
	}

	var sources []Source
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if !matchesAny(include, rel) {
			return nil
		}
		if gi != nil && gi.MatchesPath(rel) {
			logger.Debug("Ignoring source", logfields.Path(rel))
			return nil
		}
		sources = append(sources, Source{Path: path, RelPath: rel})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cerrors.ErrWalkFailed, err)
	}

	sort.Slice(sources, func(i, j int) bool { return sources[i].RelPath < sources[j].RelPath })
	logger.Debug("Discovered sources", logfields.Count(len(sources)))
	return sources, nil
}

func matchesAny(globs []string, rel string) bool {
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
	}
	return false
}

func loadIgnore(path string) (*ignore.GitIgnore, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", cerrors.ErrIgnoreFileInvalid, path, err)
	}
	return gi, nil
}
