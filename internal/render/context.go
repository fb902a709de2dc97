package render

import (
	"html/template"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
)

// Template names. Each can be replaced by a same-named file in the templates directory.
const (
	TemplateBase    = "base.html"
	TemplatePost    = "post.html"
	TemplateList    = "list.html"
	TemplateArchive = "archive.html"
	TemplateTags    = "tags.html"
	TemplateTag     = "tag.html"
	TemplatePage    = "page.html"
)

// Page is a typed template context.
type Page interface {
	Template() string
}

// NavLinks are the site-wide navigation targets.
type NavLinks struct {
	Home    string
	Archive string
	Tags    string
	About   string
	Feed    string
}

// Layout is the part of every page that base.html renders.
type Layout struct {
	Site        config.Site
	PageID      string
	Title       string
	Description string
	Canonical   string
	Stylesheet  string
	Footer      string
	Year        int
	JSONLD      template.JS
	Nav         NavLinks
}

// TagLink is a tag with the URL of its page.
type TagLink struct {
	Name string
	URL  string
}

// PostView is a post as shown in lists and on its own page.
type PostView struct {
	Title   string
	URL     string
	Date    string
	Excerpt string
	Tags    []TagLink
}

// NavLink points at a neighbouring post.
type NavLink struct {
	Title string
	URL   string
}

type PostPage struct {
	Layout
	Post    PostView
	Updated string
	Content template.HTML
	TOC     template.HTML
	Prev    *NavLink
	Next    *NavLink
}

func (PostPage) Template() string { return TemplatePost }

// HomePage lists the newest posts.
type HomePage struct {
	Layout
	Posts   []PostView
	HasMore bool
}

func (HomePage) Template() string { return TemplateList }

type ArchiveEntry struct {
	MonthDay string
	Title    string
	URL      string
}

type ArchiveYear struct {
	Year  int
	Posts []ArchiveEntry
}

type ArchivePage struct {
	Layout
	Years []ArchiveYear
}

func (ArchivePage) Template() string { return TemplateArchive }

type TagCloudItem struct {
	Name  string
	URL   string
	Count int
	Size  string
}

type TagIndexPage struct {
	Layout
	Tags []TagCloudItem
}

func (TagIndexPage) Template() string { return TemplateTags }

type TagPage struct {
	Layout
	Tag   string
	Posts []PostView
}

func (TagPage) Template() string { return TemplateTag }

// StandalonePage is a page outside the post list: about, 404.
type StandalonePage struct {
	Layout
	Content template.HTML
}

func (StandalonePage) Template() string { return TemplatePage }
