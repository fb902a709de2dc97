package build

import (
	"context"

	"git.home.luguber.info/inful/blogbuilder/internal/incremental"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/observability"
)

// stageWiden grows the rebuild set beyond the documents that changed: every page after a
// theme change and, with build.rebuild_neighbours, posts whose previous/next neighbours moved.
func stageWiden(ctx context.Context, st *State) error {
	if st.Theme.Changed {
		var all []string
		for path, doc := range st.Docs {
			if doc.Rendered() {
				all = append(all, path)
			}
		}
		st.Agg.Widen(all)
		observability.InfoContext(ctx, "Theme changed, rebuilding every page", logfields.Count(len(all)))
		return nil
	}

	if !st.cfg.Build.RebuildNeighbours {
		return nil
	}

	changed := incremental.NavChanges(oldNav(st), newNav(st))
	var widened []string
	for _, path := range changed {
		if doc, ok := st.Docs[path]; ok && doc.Rendered() && !st.Agg.Has(path) {
			widened = append(widened, path)
		}
	}
	if len(widened) > 0 {
		st.Agg.Widen(widened)
		observability.InfoContext(ctx, "Navigation changed", logfields.Count(len(widened)))
		for _, path := range widened {
			observability.DebugContext(ctx, "Neighbour rebuild", logfields.Path(path))
		}
	}
	return nil
}
