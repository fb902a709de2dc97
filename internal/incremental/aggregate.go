package incremental

import (
	"git.home.luguber.info/inful/blogbuilder/internal/util/sets"
)

// Reasons for regenerating the aggregate pages.
const (
	AggregateFirstBuild      = "first_build"
	AggregateMetadataChanged = "metadata_changed"
	AggregateDocumentAdded   = "document_added"
	AggregateDocumentRemoved = "document_removed"
	AggregateThemeChanged    = "theme_changed"
	AggregateFeedContent     = "feed_content_changed"
	AggregatePreviousFailure = "previous_aggregate_failed"
)

// Aggregator folds per-document decisions into the set of pages to rewrite and the single
// decision for the aggregate pages (home, archive, tags, feeds). It is not safe for
// concurrent use.
type Aggregator struct {
	rebuild sets.Set[string]
	reasons sets.Set[string]
}

// NewAggregator starts a run. A first build always regenerates the aggregates.
func NewAggregator(firstBuild bool) *Aggregator {
	a := &Aggregator{rebuild: sets.New[string](), reasons: sets.New[string]()}
	if firstBuild {
		a.reasons.Add(AggregateFirstBuild)
	}
	return a
}

// Observe records a document's classification.
func (a *Aggregator) Observe(path string, c Classification) {
	if c.NeedsHTMLRegen {
		a.rebuild.Add(path)
	}
	if c.MetadataChanged {
		a.reasons.Add(AggregateMetadataChanged)
	}
}

func (a *Aggregator) MarkAdded(string) { a.reasons.Add(AggregateDocumentAdded) }

func (a *Aggregator) MarkRemoved(string) { a.reasons.Add(AggregateDocumentRemoved) }

func (a *Aggregator) MarkThemeChanged() { a.reasons.Add(AggregateThemeChanged) }

// ForceAggregates flags the aggregates for a reason the classifier cannot see.
func (a *Aggregator) ForceAggregates(reason string) { a.reasons.Add(reason) }

// Widen adds paths to the rebuild set.
func (a *Aggregator) Widen(paths []string) {
	for _, p := range paths {
		a.rebuild.Add(p)
	}
}

// Drop removes a path from the rebuild set.
func (a *Aggregator) Drop(path string) { a.rebuild.Delete(path) }

func (a *Aggregator) Has(path string) bool { return a.rebuild.Has(path) }

// RebuildSet returns the paths whose pages must be rewritten, sorted.
func (a *Aggregator) RebuildSet() []string { return sets.Sorted(a.rebuild) }

func (a *Aggregator) AggregatesStale() bool { return a.reasons.Len() > 0 }

// Reasons returns why the aggregates are stale, sorted.
func (a *Aggregator) Reasons() []string { return sets.Sorted(a.reasons) }
