package render

import (
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
)

// URLs builds links for one site.
type URLs struct {
	base string
	root string
}

func NewURLs(site config.Site) URLs {
	return URLs{base: strings.TrimRight(site.BaseURL(), "/"), root: site.Root()}
}

// Internal turns an output-relative link into a root-prefixed pretty URL: "posts/a/"
// and the legacy "posts/a.html" both become "/posts/a/". Feed files and the 404 page keep
// their names.
func (u URLs) Internal(link string) string {
	link = strings.TrimLeft(strings.TrimSpace(link), "/")
	lower := strings.ToLower(link)
	switch {
	case link == "" || lower == "index.html" || lower == "index":
		return u.root
	case strings.HasSuffix(lower, ".xml") || strings.HasSuffix(lower, ".txt") || lower == "404.html":
	case strings.HasSuffix(lower, "/index.html"):
		link = link[:len(link)-len("index.html")]
	case strings.HasSuffix(lower, ".html"):
		link = link[:len(link)-len(".html")] + "/"
	case !strings.HasSuffix(link, "/"):
		link += "/"
	}
	return u.root + link
}

// Absolute returns the canonical URL of an output-relative link.
func (u URLs) Absolute(link string) string {
	return u.base + u.Internal(link)
}

// Asset returns the root-prefixed URL of a file in the output tree, unchanged otherwise.
func (u URLs) Asset(path string) string {
	if path == "" {
		return ""
	}
	return u.root + strings.TrimLeft(path, "/")
}

// AbsoluteAsset resolves an asset reference found in content. Absolute URLs are returned
// as they are.
func (u URLs) AbsoluteAsset(ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "//") {
		return ref
	}
	return u.base + u.root + strings.TrimLeft(ref, "/")
}
