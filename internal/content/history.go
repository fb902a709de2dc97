package content

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Where a modification time came from.
const (
	ModifiedFromGit        = "git"
	ModifiedFromFilesystem = "filesystem"
)

var errStop = errors.New("stop")

// History answers "when did this file last change". It prefers the last commit touching
// the file and falls back to the file's mtime outside a repository or for untracked files.
type History struct {
	mu   sync.Mutex
	repo *git.Repository
	root string
}

// NewHistory opens the repository containing dir, if any.
func NewHistory(dir string) *History {
	h := &History{}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return h
	}
	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return h
	}
	wt, err := repo.Worktree()
	if err != nil {
		return h
	}
	h.repo = repo
	h.root = wt.Filesystem.Root()
	return h
}

// InRepository reports whether commit dates are available.
func (h *History) InRepository() bool { return h != nil && h.repo != nil }

// LastModified returns the time path last changed and the source of that time.
func (h *History) LastModified(path string) (time.Time, string, error) {
	if t, ok := h.commitTime(path); ok {
		return t, ModifiedFromGit, nil
	}
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}, "", err
	}
	return fi.ModTime(), ModifiedFromFilesystem, nil
}

func (h *History) commitTime(path string) (time.Time, bool) {
	if !h.InRepository() {
		return time.Time{}, false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return time.Time{}, false
	}
	rel, err := filepath.Rel(h.root, abs)
	if err != nil {
		return time.Time{}, false
	}
	rel = filepath.ToSlash(rel)

	// go-git repositories are not safe for concurrent log walks.
	h.mu.Lock()
	defer h.mu.Unlock()

	iter, err := h.repo.Log(&git.LogOptions{FileName: &rel})
	if err != nil {
		return time.Time{}, false
	}
	defer iter.Close()

	var when time.Time
	err = iter.ForEach(func(c *object.Commit) error {
		when = c.Author.When
		return errStop
	})
	if err != nil && !errors.Is(err, errStop) {
		return time.Time{}, false
	}
	return when, !when.IsZero()
}
