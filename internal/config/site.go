package config

import (
	"path"
	"time"
)

// Site is the immutable, fully resolved view of the site settings used while rendering.
// It is built once per run, after the stylesheet fingerprint is known, and passed to every
// renderer explicitly.
type Site struct {
	title           string
	description     string
	author          string
	baseURL         string
	root            string
	language        string
	location        *time.Location
	maxPostsOnIndex int
	feedItems       int
	postsDir        string
	tagsDir         string
	sitemapFile     string
	rssFile         string
	stylesheet      string
}

// NewSite snapshots cfg. stylesheet is the output-relative path of the fingerprinted
// stylesheet (for example "assets/style.1a2b3c4d.css"), or "" when there is none.
func NewSite(cfg *Config, stylesheet string) Site {
	loc, err := time.LoadLocation(cfg.Site.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return Site{
		title:           cfg.Site.Title,
		description:     cfg.Site.Description,
		author:          cfg.Site.Author,
		baseURL:         cfg.Site.BaseURL,
		root:            normalizeRoot(cfg.Site.Root),
		language:        cfg.Site.Language,
		location:        loc,
		maxPostsOnIndex: cfg.Site.MaxPostsOnIndex,
		feedItems:       cfg.Site.FeedItems,
		postsDir:        cfg.Output.PostsDir,
		tagsDir:         cfg.Output.TagsDir,
		sitemapFile:     cfg.Output.Sitemap,
		rssFile:         cfg.Output.RSS,
		stylesheet:      stylesheet,
	}
}

func (s Site) Title() string            { return s.title }
func (s Site) Description() string      { return s.description }
func (s Site) Author() string           { return s.author }
func (s Site) BaseURL() string          { return s.baseURL }
func (s Site) Root() string             { return s.root }
func (s Site) Language() string         { return s.language }
func (s Site) Location() *time.Location { return s.location }
func (s Site) MaxPostsOnIndex() int     { return s.maxPostsOnIndex }
func (s Site) FeedItems() int           { return s.feedItems }
func (s Site) PostsDir() string         { return s.postsDir }
func (s Site) TagsDir() string          { return s.tagsDir }
func (s Site) SitemapFile() string      { return s.sitemapFile }
func (s Site) RSSFile() string          { return s.rssFile }
func (s Site) StylesheetPath() string   { return s.stylesheet }

// PostLink is the output-relative directory link of a post, e.g. "posts/hello/".
func (s Site) PostLink(slug string) string { return path.Join(s.postsDir, slug) + "/" }

// TagLink is the output-relative directory link of a tag page.
func (s Site) TagLink(tagSlug string) string { return path.Join(s.tagsDir, tagSlug) + "/" }
