package build

import (
	"fmt"
	"html/template"
	"slices"
	"strings"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/content"
	"git.home.luguber.info/inful/blogbuilder/internal/incremental"
	"git.home.luguber.info/inful/blogbuilder/internal/render"
)

// Page identifiers exposed to templates as .PageID.
const (
	pageIndex    = "index"
	pagePost     = "post"
	pageArchive  = "archive"
	pageTags     = "tags"
	pageTag      = "tag"
	pageAbout    = "about"
	pageNotFound = "404"
)

// Output-relative locations of the fixed pages.
const (
	archiveLink  = "archive/"
	aboutLink    = "about/"
	notFoundFile = "404.html"
	indexFile    = "index.html"
)

// layout fills the shared part of a page.
func (st *State) layout(pageID, title, desc, link string) render.Layout {
	if desc == "" {
		desc = st.Site.Description()
	}
	return render.Layout{
		Site:        st.Site,
		PageID:      pageID,
		Title:       title,
		Description: desc,
		Canonical:   st.URLs.Absolute(link),
		Stylesheet:  st.URLs.Asset(st.Site.StylesheetPath()),
		Year:        st.started.In(st.Site.Location()).Year(),
		Nav: render.NavLinks{
			Home:    st.URLs.Internal(""),
			Archive: st.URLs.Internal(archiveLink),
			Tags:    st.URLs.Internal(st.Site.TagsDir() + "/"),
			About:   st.URLs.Internal(aboutLink),
			Feed:    st.URLs.Internal(st.Site.RSSFile()),
		},
	}
}

// footer describes when the document last changed and when the site was built.
func (st *State) footer(doc *content.Document) string {
	built := st.started.In(st.Site.Location()).Format("2006-01-02 15:04 MST")
	when, source := st.lastModified(doc)
	if when.IsZero() {
		return "Built " + built
	}
	return fmt.Sprintf("Last modified %s (%s) · Built %s",
		when.In(st.Site.Location()).Format(content.DateFormat), source, built)
}

func (st *State) tagLinks(doc *content.Document) []render.TagLink {
	out := make([]render.TagLink, 0, len(doc.Meta.Tags))
	for _, t := range doc.Meta.Tags {
		out = append(out, render.TagLink{Name: t.Name, URL: st.URLs.Internal(st.Site.TagLink(t.Slug))})
	}
	return out
}

func (st *State) postView(doc *content.Document) render.PostView {
	return render.PostView{
		Title:   doc.Meta.Title,
		URL:     st.URLs.Internal(st.Site.PostLink(doc.Meta.Slug)),
		Date:    doc.Meta.DateString(),
		Excerpt: doc.Meta.Excerpt,
		Tags:    st.tagLinks(doc),
	}
}

func (st *State) postViews(docs []*content.Document) []render.PostView {
	out := make([]render.PostView, 0, len(docs))
	for _, d := range docs {
		out = append(out, st.postView(d))
	}
	return out
}

// pageFor builds the template context of a document's own page and the output-relative
// file it is written to.
func (st *State) pageFor(doc *content.Document, listed []*content.Document) (render.Page, string, error) {
	md, err := st.markdownFor(doc)
	if err != nil {
		return nil, "", fmt.Errorf("render markdown: %w", err)
	}

	switch doc.Kind {
	case content.KindNotFound:
		lay := st.layout(pageNotFound, doc.Meta.Title, doc.Meta.Excerpt, notFoundFile)
		return render.StandalonePage{Layout: lay, Content: template.HTML(md.HTML)}, notFoundFile, nil // #nosec G203 -- rendered from trusted content
	case content.KindAbout:
		lay := st.layout(pageAbout, doc.Meta.Title, doc.Meta.Excerpt, aboutLink)
		lay.Footer = st.footer(doc)
		return render.StandalonePage{Layout: lay, Content: template.HTML(md.HTML)}, aboutLink + indexFile, nil // #nosec G203 -- rendered from trusted content
	}

	link := st.Site.PostLink(doc.Meta.Slug)
	lay := st.layout(pagePost, doc.Meta.Title, doc.Meta.Excerpt, link)
	lay.Footer = st.footer(doc)

	updated := ""
	if !doc.Meta.Updated.IsZero() {
		updated = doc.Meta.Updated.Format(content.DateFormat)
	}
	modified := updated
	if modified == "" {
		if when, _ := st.lastModified(doc); !when.IsZero() {
			modified = when.In(st.Site.Location()).Format(content.DateFormat)
		}
	}
	lay.JSONLD, err = render.BlogPosting(st.URLs, render.PostingInput{
		Title:       doc.Meta.Title,
		Description: lay.Description,
		Published:   doc.Meta.DateString(),
		Modified:    modified,
		Link:        link,
		FirstImage:  md.FirstImage,
		Author:      st.Site.Author(),
		SiteTitle:   st.Site.Title(),
	})
	if err != nil {
		return nil, "", fmt.Errorf("build structured data: %w", err)
	}

	page := render.PostPage{
		Layout:  lay,
		Post:    st.postView(doc),
		Updated: updated,
		Content: template.HTML(md.HTML), // #nosec G203 -- rendered from trusted content
		TOC:     template.HTML(md.TOC),  // #nosec G203 -- generated from headings
	}
	if doc.Listed() {
		if i := slices.Index(listed, doc); i >= 0 {
			if i+1 < len(listed) {
				page.Prev = st.navLink(listed[i+1])
			}
			if i > 0 {
				page.Next = st.navLink(listed[i-1])
			}
		}
	}
	return page, link + indexFile, nil
}

func (st *State) navLink(doc *content.Document) *render.NavLink {
	return &render.NavLink{Title: doc.Meta.Title, URL: st.URLs.Internal(st.Site.PostLink(doc.Meta.Slug))}
}

// listedPosts returns the posts shown in lists and navigation, newest first; equal dates
// keep source path order.
func listedPosts(st *State) []*content.Document {
	var out []*content.Document
	for _, doc := range st.Docs {
		if doc.Listed() {
			out = append(out, doc)
		}
	}
	slices.SortFunc(out, func(a, b *content.Document) int {
		if c := strings.Compare(b.Meta.DateString(), a.Meta.DateString()); c != 0 {
			return c
		}
		return strings.Compare(a.RelPath, b.RelPath)
	})
	return out
}

// sortedDocs orders documents by source path.
func sortedDocs(docs []*content.Document) []*content.Document {
	out := slices.Clone(docs)
	slices.SortFunc(out, func(a, b *content.Document) int { return strings.Compare(a.RelPath, b.RelPath) })
	return out
}

// newNav is this run's navigation order.
func newNav(st *State) []incremental.NavItem {
	listed := listedPosts(st)
	out := make([]incremental.NavItem, 0, len(listed))
	for _, doc := range listed {
		out = append(out, incremental.NavItem{
			Path:  doc.RelPath,
			Title: doc.Meta.Title,
			Link:  st.Site.PostLink(doc.Meta.Slug),
		})
	}
	return out
}

type navEntry struct {
	path string
	date string
	item incremental.NavItem
}

// oldNav reconstructs the previous run's navigation order from its manifest.
func oldNav(st *State) []incremental.NavItem {
	var entries []navEntry
	for path, e := range st.Old.Posts {
		link, ok := e.Output.Link()
		if !ok || e.Hidden || e.Status == string(content.StatusDraft) || e.Date == "" {
			continue
		}
		entries = append(entries, navEntry{
			path: path,
			date: e.Date,
			item: incremental.NavItem{Path: path, Title: e.Title, Link: link},
		})
	}
	slices.SortFunc(entries, func(a, b navEntry) int {
		if c := strings.Compare(b.date, a.date); c != 0 {
			return c
		}
		return strings.Compare(a.path, b.path)
	})
	out := make([]incremental.NavItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.item)
	}
	return out
}

// postDate is the publication time used by the feed.
func postDate(doc *content.Document, loc *time.Location) time.Time {
	d := doc.Meta.Date
	if d.Location() == time.UTC && loc != nil && d.Hour() == 0 && d.Minute() == 0 {
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	}
	return d
}
