package content

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "git.home.luguber.info/inful/blogbuilder/internal/content/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/incremental"
)

func TestLoad(t *testing.T) {
	root := t.TempDir()
	body := "---\ntitle: Hello\ndate: 2024-01-02\ntags: go\n---\n# Hi\n"
	writeFile(t, filepath.Join(root, "hello.md"), body)

	doc, err := Load(Source{Path: filepath.Join(root, "hello.md"), RelPath: "hello.md"}, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, incremental.HashFile(filepath.Join(root, "hello.md")), doc.Hash)
	assert.Equal(t, "# Hi\n", string(doc.Body))
	assert.Equal(t, KindPost, doc.Kind)
	assert.True(t, doc.Listed())
	assert.True(t, doc.Rendered())
	assert.Empty(t, doc.Warnings)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(Source{Path: filepath.Join(t.TempDir(), "gone.md"), RelPath: "gone.md"}, LoadOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, cerrors.ErrFileReadFailed))
}

func TestParseBrokenFrontMatter(t *testing.T) {
	raw := []byte("---\ntitle: [unclosed\n---\nbody\n")
	doc := Parse(Source{Path: "2024-02-03-broken.md", RelPath: "2024-02-03-broken.md"}, raw, LoadOptions{})
	require.NotEmpty(t, doc.Warnings)
	assert.Equal(t, "Broken", doc.Meta.Title)
	assert.Equal(t, "2024-02-03", doc.Meta.DateString())
	assert.Equal(t, string(raw), string(doc.Body))
}

func TestDocumentKinds(t *testing.T) {
	opts := LoadOptions{AboutPage: "about.md"}
	tests := []struct {
		name     string
		file     string
		src      string
		kind     Kind
		listed   bool
		rendered bool
	}{
		{"post", "2024-01-01-a.md", "title: A", KindPost, true, true},
		{"draft", "2024-01-01-a.md", "status: draft", KindPost, false, true},
		{"undated post", "a.md", "title: A", KindPost, false, false},
		{"404 by name", "404.md", "title: Lost", KindNotFound, false, true},
		{"404 by slug", "missing.md", "slug: '404'", KindNotFound, false, true},
		{"about by name", "about.md", "hidden: true", KindAbout, false, true},
		{"about by slug", "me.md", "hidden: true\nslug: about", KindAbout, false, true},
		{"hidden", "secret.md", "hidden: true", KindHidden, false, false},
		{"visible about.md", "2024-01-01-about.md", "title: About", KindPost, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := []byte("---\n" + tt.src + "\n---\nbody\n")
			doc := Parse(Source{Path: tt.file, RelPath: tt.file}, raw, opts)
			assert.Equal(t, tt.kind, doc.Kind)
			assert.Equal(t, tt.listed, doc.Listed())
			assert.Equal(t, tt.rendered, doc.Rendered())
		})
	}
}

func TestPublishable(t *testing.T) {
	doc := Parse(Source{Path: "a.md", RelPath: "a.md"}, []byte("---\ntitle: A\n---\n"), LoadOptions{})
	assert.ErrorIs(t, doc.Publishable(), cerrors.ErrMissingDate)

	nf := Parse(Source{Path: "404.md", RelPath: "404.md"}, []byte("x"), LoadOptions{})
	assert.NoError(t, nf.Publishable())
}
