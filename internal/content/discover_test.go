package content

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "git.home.luguber.info/inful/blogbuilder/internal/content/errors"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func relPaths(sources []Source) []string {
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		out = append(out, s.RelPath)
	}
	return out
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "markdown")
	for _, p := range []string{
		"b-post.md",
		"2024-01-02-a-post.md",
		"notes/deep.md",
		"notes/scratch.md",
		"drafts/wip.md",
		".hidden.md",
		".git/HEAD.md",
		"image.png",
	} {
		writeFile(t, filepath.Join(root, p), "x")
	}
	ignoreFile := filepath.Join(dir, ".buildignore")
	writeFile(t, ignoreFile, "drafts/\nnotes/scratch.md\n")

	got, err := Discover(root, DiscoverOptions{IgnoreFile: ignoreFile})
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-02-a-post.md", "b-post.md", "notes/deep.md"}, relPaths(got))
	assert.Equal(t, "deep.md", got[2].Name())
}

func TestDiscoverIncludeGlobs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.md"), "x")
	writeFile(t, filepath.Join(root, "b.markdown"), "x")
	writeFile(t, filepath.Join(root, "sub", "c.md"), "x")

	got, err := Discover(root, DiscoverOptions{Include: []string{"*.md", "*.markdown"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.md", "b.markdown"}, relPaths(got))
}

func TestDiscoverMissingIgnoreFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.md"), "x")
	got, err := Discover(root, DiscoverOptions{IgnoreFile: filepath.Join(root, "missing")})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestDiscoverMissingRoot(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"), DiscoverOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, cerrors.ErrContentRootMissing))
}

func TestDiscoverSkipsSymlinks(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "real.md"), "x")
	if err := os.Symlink(filepath.Join(root, "real.md"), filepath.Join(root, "link.md")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	got, err := Discover(root, DiscoverOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"real.md"}, relPaths(got))
}
