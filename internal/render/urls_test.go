package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
)

func testSite(t *testing.T, root string) config.Site {
	t.Helper()
	cfg := config.Default()
	cfg.Site.Title = "Example"
	cfg.Site.Author = "Jane"
	cfg.Site.BaseURL = "https://example.com"
	cfg.Site.Root = root
	return config.NewSite(cfg, "assets/style.1a2b3c4d.css")
}

func TestURLsInternal(t *testing.T) {
	tests := []struct {
		name string
		root string
		link string
		want string
	}{
		{"home", "", "", "/"},
		{"index file", "", "index.html", "/"},
		{"pretty post", "", "posts/hello/", "/posts/hello/"},
		{"legacy post", "", "posts/hello.html", "/posts/hello/"},
		{"directory index", "", "tags/go/index.html", "/tags/go/"},
		{"missing slash", "", "archive", "/archive/"},
		{"feed keeps name", "", "rss.xml", "/rss.xml"},
		{"robots keeps name", "", "robots.txt", "/robots.txt"},
		{"not found keeps name", "", "404.html", "/404.html"},
		{"sub root", "blog", "posts/hello/", "/blog/posts/hello/"},
		{"sub root home", "/blog/", "", "/blog/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := NewURLs(testSite(t, tt.root))
			assert.Equal(t, tt.want, u.Internal(tt.link))
		})
	}
}

func TestURLsAbsolute(t *testing.T) {
	u := NewURLs(testSite(t, "blog"))
	assert.Equal(t, "https://example.com/blog/posts/a/", u.Absolute("posts/a/"))
	assert.Equal(t, "https://example.com/blog/sitemap.xml", u.Absolute("sitemap.xml"))
}

func TestURLsAssets(t *testing.T) {
	u := NewURLs(testSite(t, ""))
	assert.Equal(t, "/assets/style.css", u.Asset("assets/style.css"))
	assert.Empty(t, u.Asset(""))
	assert.Equal(t, "https://example.com/static/a.png", u.AbsoluteAsset("/static/a.png"))
	assert.Equal(t, "https://cdn.example.org/a.png", u.AbsoluteAsset("https://cdn.example.org/a.png"))
	assert.Equal(t, "//cdn.example.org/a.png", u.AbsoluteAsset("//cdn.example.org/a.png"))
}
