package content

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryFilesystemFallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.md")
	writeFile(t, path, "x")
	mtime := time.Date(2022, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	h := NewHistory(dir)
	assert.False(t, h.InRepository())
	got, source, err := h.LastModified(path)
	require.NoError(t, err)
	assert.Equal(t, ModifiedFromFilesystem, source)
	assert.True(t, got.Equal(mtime))

	_, _, err = h.LastModified(filepath.Join(dir, "missing.md"))
	assert.Error(t, err)
}

func TestHistoryCommitTime(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	writeFile(t, filepath.Join(dir, "markdown", "post.md"), "hello")
	writeFile(t, filepath.Join(dir, "markdown", "untracked.md"), "new")
	_, err = wt.Add("markdown/post.md")
	require.NoError(t, err)
	when := time.Date(2023, 3, 4, 5, 6, 7, 0, time.UTC)
	_, err = wt.Commit("add post", &git.CommitOptions{
		Author: &object.Signature{Name: "Writer", Email: "writer@example.com", When: when},
	})
	require.NoError(t, err)

	h := NewHistory(filepath.Join(dir, "markdown"))
	require.True(t, h.InRepository())

	got, source, err := h.LastModified(filepath.Join(dir, "markdown", "post.md"))
	require.NoError(t, err)
	assert.Equal(t, ModifiedFromGit, source)
	assert.True(t, got.Equal(when), "got %v", got)

	_, source, err = h.LastModified(filepath.Join(dir, "markdown", "untracked.md"))
	require.NoError(t, err)
	assert.Equal(t, ModifiedFromFilesystem, source)
}
