package markdown

import (
	"strconv"

	gmast "github.com/yuin/goldmark/ast"
)

// headingIDs generates unique heading IDs with a caller supplied slug function, so
// headings in any script get readable anchors.
type headingIDs struct {
	slugify func(string) string
	used    map[string]bool
}

func newHeadingIDs(slugify func(string) string) *headingIDs {
	return &headingIDs{slugify: slugify, used: map[string]bool{}}
}

func (s *headingIDs) Generate(value []byte, kind gmast.NodeKind) []byte {
	base := s.slugify(string(value))
	if base == "" {
		base = "heading"
		if kind != gmast.KindHeading {
			base = "id"
		}
	}
	id := base
	for i := 1; s.used[id]; i++ {
		id = base + "-" + strconv.Itoa(i)
	}
	s.used[id] = true
	return []byte(id)
}

func (s *headingIDs) Put(value []byte) {
	s.used[string(value)] = true
}
