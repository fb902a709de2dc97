package incremental

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"git.home.luguber.info/inful/blogbuilder/internal/util/sets"
)

// Keys of dependencies that are not plain files under the working directory.
const (
	EmbeddedKeyPrefix = "embedded:"
	ConfigKeyPrefix   = "config:"
	ExecutableKey     = "builder:executable"
)

// ThemeDependency is one input shared by every page: a change to any of them makes every
// rendered page stale.
type ThemeDependency struct {
	Key string
	// Path is read and hashed when Data is nil.
	Path string
	Data []byte
}

func (d ThemeDependency) hash() string {
	if d.Data != nil {
		return HashBytes(d.Data)
	}
	return HashFile(d.Path)
}

// ThemeInputs names where theme dependencies live.
type ThemeInputs struct {
	// WorkDir anchors the keys of file dependencies.
	WorkDir      string
	Stylesheet   string
	TemplatesDir string
	Globs        []string
	// Embedded maps template names to the built-in template bytes.
	Embedded   map[string][]byte
	ConfigFile string
	Executable string
}

// ResolveThemeDependencies collects the dependency set, sorted by key. Paths that do not
// exist are skipped.
func ResolveThemeDependencies(in ThemeInputs) ([]ThemeDependency, error) {
	var deps []ThemeDependency
	seen := sets.New[string]()
	addFile := func(key, path string) {
		if seen.Has(key) || !isRegular(path) {
			return
		}
		seen.Add(key)
		deps = append(deps, ThemeDependency{Key: key, Path: path})
	}

	if in.Stylesheet != "" {
		addFile(relKey(in.WorkDir, in.Stylesheet), in.Stylesheet)
	}

	if in.TemplatesDir != "" {
		files, err := templateFiles(in.TemplatesDir, in.Globs)
		if err != nil {
			return nil, err
		}
		for _, p := range files {
			addFile(relKey(in.WorkDir, p), p)
		}
	}

	for name, data := range in.Embedded {
		deps = append(deps, ThemeDependency{Key: EmbeddedKeyPrefix + name, Data: data})
	}

	if in.ConfigFile != "" {
		addFile(ConfigKeyPrefix+filepath.Base(in.ConfigFile), in.ConfigFile)
	}
	if in.Executable != "" {
		addFile(ExecutableKey, in.Executable)
	}

	sort.Slice(deps, func(i, j int) bool { return deps[i].Key < deps[j].Key })
	return deps, nil
}

func templateFiles(dir string, globs []string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		for _, g := range globs {
			if ok, _ := doublestar.Match(g, rel); ok {
				out = append(out, p)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func relKey(workDir, path string) string {
	if workDir != "" {
		if rel, err := filepath.Rel(workDir, path); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(filepath.Clean(path))
}

func isRegular(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

// ThemeCheck is the global theme decision of one run.
type ThemeCheck struct {
	Changed bool
	// Hashes is the new templates bucket.
	Hashes      map[string]string
	ChangedKeys []string
}

// CheckTheme hashes every dependency and compares against the previous templates bucket.
// A dependency that is new, changed, or no longer present marks the theme changed.
// Dependencies that cannot be read are skipped and not recorded.
func CheckTheme(deps []ThemeDependency, old map[string]string) ThemeCheck {
	res := ThemeCheck{Hashes: make(map[string]string, len(deps))}
	for _, d := range deps {
		h := d.hash()
		if h == "" {
			continue
		}
		res.Hashes[d.Key] = h
		if prev, ok := old[d.Key]; !ok || prev != h {
			res.ChangedKeys = append(res.ChangedKeys, d.Key)
		}
	}
	// Unlike unreadable dependencies, which are skipped, a key recorded last run and gone now
	// counts as a change: a removed template override alters every page.
	for key := range old {
		if _, ok := res.Hashes[key]; !ok {
			res.ChangedKeys = append(res.ChangedKeys, key)
		}
	}
	sort.Strings(res.ChangedKeys)
	res.Changed = len(res.ChangedKeys) > 0
	return res
}
