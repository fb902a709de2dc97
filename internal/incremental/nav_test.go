package incremental

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func items(paths ...string) []NavItem {
	out := make([]NavItem, 0, len(paths))
	for _, p := range paths {
		out = append(out, NavItem{Path: p, Title: p, Link: "posts/" + p + "/"})
	}
	return out
}

func TestNavChanges(t *testing.T) {
	t.Run("identical", func(t *testing.T) {
		assert.Empty(t, NavChanges(items("c", "b", "a"), items("c", "b", "a")))
	})

	t.Run("new post at the top", func(t *testing.T) {
		got := NavChanges(items("c", "b", "a"), items("d", "c", "b", "a"))
		assert.Equal(t, []string{"c", "d"}, got)
	})

	t.Run("removed middle post", func(t *testing.T) {
		got := NavChanges(items("c", "b", "a"), items("c", "a"))
		assert.Equal(t, []string{"a", "c"}, got)
	})

	t.Run("retitled neighbour", func(t *testing.T) {
		next := items("c", "b", "a")
		next[1].Title = "B!"
		assert.Equal(t, []string{"a", "c"}, NavChanges(items("c", "b", "a"), next))
	})

	t.Run("first build", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b"}, NavChanges(nil, items("b", "a")))
	})
}
