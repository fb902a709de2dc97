package render

import (
	"html/template"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

func testLayout(t *testing.T, id, title string) Layout {
	t.Helper()
	site := testSite(t, "")
	u := NewURLs(site)
	return Layout{
		Site:       site,
		PageID:     id,
		Title:      title,
		Canonical:  u.Absolute(id),
		Stylesheet: u.Asset(site.StylesheetPath()),
		Year:       2024,
		Nav: NavLinks{
			Home:    u.Internal(""),
			Archive: u.Internal("archive/"),
			Tags:    u.Internal("tags/"),
			About:   u.Internal("about/"),
			Feed:    u.Internal("rss.xml"),
		},
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	tpls := EmbeddedTemplates()
	assert.Len(t, tpls, 7)
	for _, name := range []string{TemplateBase, TemplatePost, TemplateList, TemplateArchive, TemplateTags, TemplateTag, TemplatePage} {
		assert.NotEmpty(t, tpls[name], name)
	}
}

func TestRenderPostPage(t *testing.T) {
	r, err := NewRenderer("")
	require.NoError(t, err)
	assert.Empty(t, r.Overridden())

	page := PostPage{
		Layout: testLayout(t, "posts/hello/", "Hello <World>"),
		Post: PostView{
			Title: "Hello <World>",
			URL:   "/posts/hello/",
			Date:  "2024-03-01",
			Tags:  []TagLink{{Name: "go", URL: "/tags/go/"}},
		},
		Updated: "2024-03-05",
		Content: template.HTML("<p>Body <em>text</em></p>"),
		Prev:    &NavLink{Title: "Older", URL: "/posts/older/"},
	}
	page.JSONLD = template.JS(`{"@type":"BlogPosting"}`)

	out, err := r.Render(page)
	require.NoError(t, err)
	assert.Contains(t, out, "<title>Hello &lt;World&gt; | Example</title>")
	assert.Contains(t, out, "<p>Body <em>text</em></p>")
	assert.Contains(t, out, `<link rel="stylesheet" href="/assets/style.1a2b3c4d.css">`)
	assert.Contains(t, out, `<link rel="canonical" href="https://example.com/posts/hello/">`)
	assert.Contains(t, out, `<script type="application/ld+json">{"@type":"BlogPosting"}</script>`)
	assert.Contains(t, out, `href="/tags/go/">#go</a>`)
	assert.Contains(t, out, `class="prev" href="/posts/older/"`)
	assert.NotContains(t, out, `class="next"`)
	assert.Contains(t, out, "updated")
}

func TestRenderListPages(t *testing.T) {
	r, err := NewRenderer("")
	require.NoError(t, err)

	home, err := r.Render(HomePage{
		Layout:  testLayout(t, "index", "Home"),
		Posts:   []PostView{{Title: "One", URL: "/posts/one/", Date: "2024-01-01", Excerpt: "short"}},
		HasMore: true,
	})
	require.NoError(t, err)
	assert.Contains(t, home, "<title>Example</title>")
	assert.Contains(t, home, `<a href="/posts/one/">One</a>`)
	assert.Contains(t, home, "All posts")

	empty, err := r.Render(HomePage{Layout: testLayout(t, "index", "Home")})
	require.NoError(t, err)
	assert.Contains(t, empty, "No posts yet.")

	archive, err := r.Render(ArchivePage{
		Layout: testLayout(t, "archive", "Archive"),
		Years: []ArchiveYear{{Year: 2024, Posts: []ArchiveEntry{
			{MonthDay: "03-01", Title: "One", URL: "/posts/one/"},
			{MonthDay: "01-15", Title: "Two", URL: "/posts/two/"},
		}}},
	})
	require.NoError(t, err)
	assert.Contains(t, archive, "2024 <small>(2)</small>")

	tags, err := r.Render(TagIndexPage{
		Layout: testLayout(t, "tags", "Tags"),
		Tags:   []TagCloudItem{{Name: "go", URL: "/tags/go/", Count: 5, Size: "1.55"}},
	})
	require.NoError(t, err)
	assert.Contains(t, tags, "font-size: 1.55rem;")
	assert.Contains(t, tags, "go (5)")

	tag, err := r.Render(TagPage{
		Layout: testLayout(t, "tags/go/", "Tag: go"),
		Tag:    "go",
		Posts:  []PostView{{Title: "One", URL: "/posts/one/", Date: "2024-01-01"}},
	})
	require.NoError(t, err)
	assert.Contains(t, tag, "<h1>Tag: go</h1>")

	about, err := r.Render(StandalonePage{
		Layout:  testLayout(t, "about/", "About"),
		Content: template.HTML("<p>me</p>"),
	})
	require.NoError(t, err)
	assert.Contains(t, about, "<p>me</p>")
}

func TestRendererOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, TemplatePage),
		[]byte(`{{define "content"}}<div class="custom">{{.Content}}</div>{{end}}`), 0o600))

	r, err := NewRenderer(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{TemplatePage}, r.Overridden())

	out, err := r.Render(StandalonePage{Layout: testLayout(t, "about/", "About"), Content: "<p>me</p>"})
	require.NoError(t, err)
	assert.Contains(t, out, `<div class="custom"><p>me</p></div>`)
	assert.Contains(t, out, "<footer")
}

func TestRendererMissingOverrideDir(t *testing.T) {
	r, err := NewRenderer(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, r.Overridden())
}

func TestRendererBrokenOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, TemplatePost), []byte(`{{define "content"}}{{.Post.Title`), 0o600))

	_, err := NewRenderer(dir)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryRender))
}

func TestRenderExecutionErrorIsRenderWarning(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, TemplateTag), []byte(`{{define "content"}}{{.Missing}}{{end}}`), 0o600))

	r, err := NewRenderer(dir)
	require.NoError(t, err)
	_, err = r.Render(TagPage{Layout: testLayout(t, "tags/go/", "go")})
	require.Error(t, err)

	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, ferrors.CategoryRender, ce.Category())
}
