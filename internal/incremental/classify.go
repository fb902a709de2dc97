package incremental

import (
	"slices"

	"git.home.luguber.info/inful/blogbuilder/internal/manifest"
)

// Reason explains a per-document decision.
type Reason string

const (
	ReasonNew            Reason = "new"
	ReasonContentChanged Reason = "content_changed"
	ReasonMissingLink    Reason = "missing_link"
	ReasonThemeChanged   Reason = "theme_changed"
	ReasonUnchanged      Reason = "unchanged"
)

// Projection is the metadata subset that aggregate pages are built from.
type Projection struct {
	Title  string
	Date   string
	Output manifest.Output
	Tags   []string
	Hidden bool
	Status string
}

// ProjectionOf extracts the projection recorded in a manifest entry.
func ProjectionOf(e manifest.Entry) Projection {
	return Projection{
		Title:  e.Title,
		Date:   e.Date,
		Output: e.Output,
		Tags:   e.Tags,
		Hidden: e.Hidden,
		Status: e.Status,
	}
}

// Equal compares field by field; tag order is irrelevant.
func (p Projection) Equal(o Projection) bool {
	if p.Title != o.Title || p.Date != o.Date || p.Output != o.Output ||
		p.Hidden != o.Hidden || p.Status != o.Status || len(p.Tags) != len(o.Tags) {
		return false
	}
	a, b := slices.Clone(p.Tags), slices.Clone(o.Tags)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}

// ClassifyInput carries what is known about one document this run.
type ClassifyInput struct {
	CurrentHash  string
	Old          *manifest.Entry
	ThemeChanged bool
	Projection   Projection
}

// Classification is the per-document staleness decision.
type Classification struct {
	NeedsFullRegen  bool
	NeedsHTMLRegen  bool
	MetadataChanged bool
	Reason          Reason
}

// Classify decides whether a document must be reparsed and whether its page must be
// rewritten. A document is reparsed when its bytes changed, it is new, or the previous run
// recorded no output for it; its page is rewritten additionally when the theme changed.
func Classify(in ClassifyInput) Classification {
	var c Classification
	switch {
	case in.Old == nil:
		c.NeedsFullRegen, c.Reason = true, ReasonNew
	case in.CurrentHash == "" || in.CurrentHash != in.Old.ContentHash:
		c.NeedsFullRegen, c.Reason = true, ReasonContentChanged
	case !in.Old.Output.Known():
		c.NeedsFullRegen, c.Reason = true, ReasonMissingLink
	case in.ThemeChanged:
		c.Reason = ReasonThemeChanged
	default:
		c.Reason = ReasonUnchanged
	}
	c.NeedsHTMLRegen = c.NeedsFullRegen || in.ThemeChanged
	c.MetadataChanged = in.Old == nil || !in.Projection.Equal(ProjectionOf(*in.Old))
	return c
}
