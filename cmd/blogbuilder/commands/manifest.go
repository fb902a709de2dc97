package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	ferrors "git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/manifest"
)

// ManifestCmd implements the 'manifest' command.
type ManifestCmd struct {
	JSON bool `help:"Print the raw manifest document"`
}

func (m *ManifestCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	path := filepath.Join(cfg.StateDir(), manifest.FileName)
	if m.JSON {
		return printRawManifest(os.Stdout, path)
	}
	printManifestSummary(os.Stdout, path, manifest.NewStore(path).Load())
	return nil
}

func printRawManifest(w io.Writer, path string) error {
	// #nosec G304 -- the manifest location comes from the configuration
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return ferrors.NotFoundError("no manifest, run a build first").WithContext("path", path).Build()
	}
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryManifest, "read manifest").WithContext("path", path).Build()
	}
	_, err = w.Write(data)
	return err
}

func printManifestSummary(w io.Writer, path string, m *manifest.Manifest) {
	_, _ = fmt.Fprintf(w, "Manifest %s\n", path)
	if m.IsEmpty() {
		_, _ = fmt.Fprintln(w, "  empty: the next build is a first build")
		return
	}
	kinds := map[manifest.Kind]int{}
	drafts, unhashed := 0, 0
	for _, e := range m.Posts {
		kinds[e.Output.Kind()]++
		if e.Status == "draft" {
			drafts++
		}
		if e.ContentHash == "" {
			unhashed++
		}
	}
	_, _ = fmt.Fprintf(w, "  documents     %d\n", len(m.Posts))
	for _, k := range []manifest.Kind{manifest.KindIndexed, manifest.KindHidden, manifest.KindNotFound, manifest.KindUnknown} {
		if kinds[k] > 0 {
			_, _ = fmt.Fprintf(w, "    %-11s %d\n", k, kinds[k])
		}
	}
	if drafts > 0 {
		_, _ = fmt.Fprintf(w, "    drafts      %d\n", drafts)
	}
	if unhashed > 0 {
		_, _ = fmt.Fprintf(w, "    pending     %d (regenerated next build)\n", unhashed)
	}
	_, _ = fmt.Fprintf(w, "  static files  %d\n", len(m.StaticFiles))
	if len(m.Templates) == 0 {
		_, _ = fmt.Fprintln(w, "  theme         none recorded, aggregates are rebuilt next build")
		return
	}
	_, _ = fmt.Fprintf(w, "  theme         %d dependencies\n", len(m.Templates))
	keys := make([]string, 0, len(m.Templates))
	for k := range m.Templates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_, _ = fmt.Fprintf(w, "    %s\n", k)
	}
}
