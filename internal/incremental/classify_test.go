package incremental

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"git.home.luguber.info/inful/blogbuilder/internal/manifest"
)

func oldEntry() *manifest.Entry {
	return &manifest.Entry{
		ContentHash: "h1",
		Title:       "Hello",
		Date:        "2024-01-02",
		Output:      manifest.Indexed("posts/hello/"),
		Tags:        []string{"b", "a"},
		Status:      "published",
	}
}

func TestClassify(t *testing.T) {
	same := ProjectionOf(*oldEntry())
	retagged := same
	retagged.Tags = []string{"a", "c"}
	noLink := oldEntry()
	noLink.Output = manifest.Output{}

	tests := []struct {
		name     string
		in       ClassifyInput
		full     bool
		html     bool
		metadata bool
		reason   Reason
	}{
		{
			name:     "new document",
			in:       ClassifyInput{CurrentHash: "h1", Projection: same},
			full:     true,
			html:     true,
			metadata: true,
			reason:   ReasonNew,
		},
		{
			name:   "unchanged",
			in:     ClassifyInput{CurrentHash: "h1", Old: oldEntry(), Projection: same},
			reason: ReasonUnchanged,
		},
		{
			name:   "content changed",
			in:     ClassifyInput{CurrentHash: "h2", Old: oldEntry(), Projection: same},
			full:   true,
			html:   true,
			reason: ReasonContentChanged,
		},
		{
			name:   "unreadable never matches",
			in:     ClassifyInput{CurrentHash: "", Old: &manifest.Entry{Output: manifest.Hidden()}, Projection: Projection{Output: manifest.Hidden()}},
			full:   true,
			html:   true,
			reason: ReasonContentChanged,
		},
		{
			name:     "missing link",
			in:       ClassifyInput{CurrentHash: "h1", Old: noLink, Projection: same},
			full:     true,
			html:     true,
			metadata: true,
			reason:   ReasonMissingLink,
		},
		{
			name:   "theme changed",
			in:     ClassifyInput{CurrentHash: "h1", Old: oldEntry(), ThemeChanged: true, Projection: same},
			html:   true,
			reason: ReasonThemeChanged,
		},
		{
			name:     "tags changed",
			in:       ClassifyInput{CurrentHash: "h2", Old: oldEntry(), Projection: retagged},
			full:     true,
			html:     true,
			metadata: true,
			reason:   ReasonContentChanged,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.in)
			assert.Equal(t, tt.full, got.NeedsFullRegen, "NeedsFullRegen")
			assert.Equal(t, tt.html, got.NeedsHTMLRegen, "NeedsHTMLRegen")
			assert.Equal(t, tt.metadata, got.MetadataChanged, "MetadataChanged")
			assert.Equal(t, tt.reason, got.Reason)
		})
	}
}

func TestProjectionEqualIgnoresTagOrder(t *testing.T) {
	a := Projection{Title: "x", Tags: []string{"go", "web"}}
	b := Projection{Title: "x", Tags: []string{"web", "go"}}
	assert.True(t, a.Equal(b))
	assert.Equal(t, []string{"go", "web"}, a.Tags, "Equal must not reorder its inputs")

	b.Hidden = true
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(Projection{Title: "x", Tags: []string{"go"}}))
}
