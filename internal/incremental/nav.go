package incremental

import "git.home.luguber.info/inful/blogbuilder/internal/util/sets"

// NavItem is a post as it appears in previous/next navigation.
type NavItem struct {
	Path  string
	Title string
	Link  string
}

type neighbours struct {
	prev, next NavItem
}

func neighbourIndex(items []NavItem) map[string]neighbours {
	idx := make(map[string]neighbours, len(items))
	for i, it := range items {
		var n neighbours
		if i > 0 {
			n.prev = items[i-1]
		}
		if i < len(items)-1 {
			n.next = items[i+1]
		}
		idx[it.Path] = n
	}
	return idx
}

// NavChanges returns the paths in next whose previous or next neighbour differs from
// the one they had in prev. Both lists must be in display order. Paths new to the list
// are included.
func NavChanges(prev, next []NavItem) []string {
	before := neighbourIndex(prev)
	changed := sets.New[string]()
	for path, n := range neighbourIndex(next) {
		if old, ok := before[path]; !ok || old != n {
			changed.Add(path)
		}
	}
	return sets.Sorted(changed)
}
