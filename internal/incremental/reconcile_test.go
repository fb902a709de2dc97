package incremental

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/manifest"
	"git.home.luguber.info/inful/blogbuilder/internal/util/sets"
)

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestReconcileRemovesOrphans(t *testing.T) {
	out := t.TempDir()
	writeFile(t, filepath.Join(out, "posts", "gone", "index.html"), "x")
	writeFile(t, filepath.Join(out, "posts", "kept", "index.html"), "x")
	writeFile(t, filepath.Join(out, "posts", "legacy.html"), "x")
	writeFile(t, filepath.Join(out, "posts", "legacy", "index.html"), "x")

	old := manifest.New()
	old.Posts["gone.md"] = manifest.Entry{Output: manifest.Indexed("posts/gone/")}
	old.Posts["kept.md"] = manifest.Entry{Output: manifest.Indexed("posts/kept/")}
	old.Posts["legacy.md"] = manifest.Entry{Output: manifest.Indexed("posts/legacy.html")}
	old.Posts["secret.md"] = manifest.Entry{Output: manifest.Hidden()}
	old.Posts["404.md"] = manifest.Entry{Output: manifest.NotFound()}
	writeFile(t, filepath.Join(out, "404.html"), "x")

	r := NewReconciler(out, nil)
	res := r.Reconcile(old, sets.New("kept.md"))

	assert.Equal(t, []string{"404.md", "gone.md", "legacy.md", "secret.md"}, res.Orphans)
	assert.Empty(t, res.Warnings)
	assert.False(t, exists(filepath.Join(out, "posts", "gone")))
	assert.False(t, exists(filepath.Join(out, "posts", "legacy.html")))
	assert.False(t, exists(filepath.Join(out, "posts", "legacy")))
	assert.True(t, exists(filepath.Join(out, "posts", "kept", "index.html")))
	assert.True(t, exists(filepath.Join(out, "404.html")), "sentinel outputs are never resolved to paths")
	assert.Len(t, res.Removed, 3)
}

func TestReconcileNoOrphans(t *testing.T) {
	old := manifest.New()
	old.Posts["a.md"] = manifest.Entry{Output: manifest.Indexed("posts/a/")}
	res := NewReconciler(t.TempDir(), nil).Reconcile(old, sets.New("a.md"))
	assert.Empty(t, res.Orphans)
	assert.Empty(t, NewReconciler(t.TempDir(), nil).Orphans(nil, sets.New[string]()))
}

func TestReconcileRefusesEscapingLinks(t *testing.T) {
	base := t.TempDir()
	out := filepath.Join(base, "site")
	victim := filepath.Join(base, "victim.txt")
	writeFile(t, victim, "keep me")
	require.NoError(t, os.MkdirAll(out, 0o750))

	old := manifest.New()
	old.Posts["evil.md"] = manifest.Entry{Output: manifest.Indexed("../victim.txt")}
	old.Posts["root.md"] = manifest.Entry{Output: manifest.Indexed("./")}

	res := NewReconciler(out, nil).Reconcile(old, sets.New[string]())
	assert.Len(t, res.Warnings, 2)
	for _, w := range res.Warnings {
		assert.True(t, errors.Is(w, ErrEscapesOutput))
	}
	assert.True(t, exists(victim))
	assert.True(t, exists(out))
}

func TestRemoveRenamed(t *testing.T) {
	out := t.TempDir()
	writeFile(t, filepath.Join(out, "posts", "old-slug", "index.html"), "x")
	r := NewReconciler(out, nil)

	removed, err := r.RemoveRenamed(manifest.Indexed("posts/old-slug/"), manifest.Indexed("posts/new-slug/"))
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, exists(filepath.Join(out, "posts", "old-slug")))

	tests := []struct {
		name     string
		old, new manifest.Output
	}{
		{"same link", manifest.Indexed("posts/a/"), manifest.Indexed("posts/a/")},
		{"old unknown", manifest.Output{}, manifest.Indexed("posts/a/")},
		{"new unknown", manifest.Indexed("posts/a/"), manifest.Output{}},
		{"old hidden", manifest.Hidden(), manifest.Indexed("posts/a/")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writeFile(t, filepath.Join(out, "posts", "a", "index.html"), "x")
			removed, err := r.RemoveRenamed(tt.old, tt.new)
			require.NoError(t, err)
			assert.False(t, removed)
			assert.True(t, exists(filepath.Join(out, "posts", "a", "index.html")))
		})
	}
}
