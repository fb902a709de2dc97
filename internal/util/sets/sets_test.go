package sets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetBasics(t *testing.T) {
	s := New("a", "b")
	s.Add("c")
	assert.True(t, s.Has("c"))
	assert.Equal(t, 3, s.Len())

	c := s.Clone()
	c.Delete("a")
	assert.True(t, s.Has("a"), "clone must not alias the original")
	assert.False(t, c.Has("a"))
}

func TestDifferenceAndSorted(t *testing.T) {
	old := FromKeys(map[string]int{"z.md": 1, "a.md": 2, "m.md": 3})
	current := New("m.md")

	assert.Equal(t, []string{"a.md", "z.md"}, Sorted(old.Difference(current)))
	assert.Empty(t, Sorted(current.Difference(old)))
}
