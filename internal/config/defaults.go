package config

import "strings"

// Defaults for a blog laid out like:
//
//	blogbuilder.yaml
//	markdown/       sources
//	static/         copied verbatim, style.css is fingerprinted
//	templates/      optional overrides of the embedded templates
//	_site/          generated output
const (
	DefaultContentDir      = "markdown"
	DefaultOutputDir       = "_site"
	DefaultStaticDir       = "static"
	DefaultStylesheet      = "static/style.css"
	DefaultTemplatesDir    = "templates"
	DefaultCNAME           = "CNAME"
	DefaultIgnoreFile      = ".buildignore"
	DefaultAboutPage       = "about.md"
	DefaultMaxPostsOnIndex = 5
	DefaultFeedItems       = 10
)

func applyDefaults(cfg *Config) {
	s := &cfg.Site
	if s.Title == "" {
		s.Title = "Blog"
	}
	if s.BaseURL == "" {
		s.BaseURL = "http://localhost:8000"
	}
	s.BaseURL = strings.TrimRight(s.BaseURL, "/")
	s.Root = normalizeRoot(s.Root)
	if s.Language == "" {
		s.Language = "en"
	}
	if s.Timezone == "" {
		s.Timezone = "UTC"
	}
	if s.MaxPostsOnIndex <= 0 {
		s.MaxPostsOnIndex = DefaultMaxPostsOnIndex
	}
	if s.FeedItems <= 0 {
		s.FeedItems = DefaultFeedItems
	}

	p := &cfg.Paths
	p.Content = orDefault(p.Content, DefaultContentDir)
	p.Output = orDefault(p.Output, DefaultOutputDir)
	p.Static = orDefault(p.Static, DefaultStaticDir)
	p.Stylesheet = orDefault(p.Stylesheet, DefaultStylesheet)
	p.Templates = orDefault(p.Templates, DefaultTemplatesDir)
	p.CNAME = orDefault(p.CNAME, DefaultCNAME)

	b := &cfg.Build
	if len(b.Include) == 0 {
		b.Include = []string{"**/*.md"}
	}
	if len(b.ThemeGlobs) == 0 {
		b.ThemeGlobs = []string{"**/*.html"}
	}
	b.IgnoreFile = orDefault(b.IgnoreFile, DefaultIgnoreFile)
	b.AboutPage = orDefault(b.AboutPage, DefaultAboutPage)
	if b.Concurrency <= 0 {
		b.Concurrency = 1
	}

	o := &cfg.Output
	o.PostsDir = strings.Trim(orDefault(o.PostsDir, "posts"), "/")
	o.TagsDir = strings.Trim(orDefault(o.TagsDir, "tags"), "/")
	o.AssetsDir = strings.Trim(orDefault(o.AssetsDir, "assets"), "/")
	o.Sitemap = orDefault(o.Sitemap, "sitemap.xml")
	o.RSS = orDefault(o.RSS, "rss.xml")

	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
}

// normalizeRoot turns "", "blog", "/blog" and "/blog/" into "/" or "/blog/".
func normalizeRoot(root string) string {
	root = strings.Trim(strings.TrimSpace(root), "/")
	if root == "" {
		return "/"
	}
	return "/" + root + "/"
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
