package build

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/content"
	"git.home.luguber.info/inful/blogbuilder/internal/feeds"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/observability"
	"git.home.luguber.info/inful/blogbuilder/internal/render"
	"git.home.luguber.info/inful/blogbuilder/internal/util/sets"
)

// Aggregate page kinds, as counted by the recorder.
const (
	aggregateHome    = "home"
	aggregateArchive = "archive"
	aggregateTags    = "tags"
	aggregateTag     = "tag"
	aggregateSitemap = "sitemap"
	aggregateRSS     = "rss"
	aggregateRobots  = "robots"
)

const robotsFile = "robots.txt"

// tagGroup is a tag and its listed posts, newest first.
type tagGroup struct {
	name  string
	slug  string
	posts []*content.Document
}

// stageAggregates regenerates the pages built from every post when anything they show
// changed. A failure leaves the theme bucket of the manifest empty so the next run
// retries them.
func stageAggregates(ctx context.Context, st *State) error {
	if !st.Agg.AggregatesStale() {
		st.New.Templates = maps.Clone(st.Theme.Hashes)
		st.recorder.SetAggregatesRebuilt(false)
		observability.InfoContext(ctx, "Aggregate pages up to date")
		return nil
	}

	reasons := st.Agg.Reasons()
	st.Report.AggregateReasons = reasons
	observability.InfoContext(ctx, "Rebuilding aggregate pages", logfields.Reason(strings.Join(reasons, ",")))

	listed := listedPosts(st)
	tags := groupTags(listed)

	steps := []struct {
		kind string
		run  func() error
	}{
		{aggregateHome, func() error { return writeHome(st, listed) }},
		{aggregateArchive, func() error { return writeArchive(st, listed) }},
		{aggregateTags, func() error { return writeTagIndex(st, tags) }},
		{aggregateTag, func() error { return writeTagPages(ctx, st, tags) }},
		{aggregateSitemap, func() error { return writeSitemap(st, listed, tags) }},
		{aggregateRSS, func() error { return writeRSS(st, listed) }},
		{aggregateRobots, func() error { return writeRobots(st) }},
	}
	var errs []error
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			st.New.Templates = map[string]string{}
			return newCanceledStageError(StageAggregates, err)
		}
		if err := step.run(); err != nil {
			st.recorder.IncPageFailed(step.kind)
			st.issue(IssueAggregateFailure, StageAggregates, SeverityWarning, "", err.Error())
			observability.WarnContext(ctx, "Failed to write aggregate page", logfields.Kind(step.kind), logfields.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", step.kind, err))
		}
	}

	if err := pruneTagDirs(st, tags); err != nil {
		st.issue(IssueCleanupFailure, StageAggregates, SeverityWarning, "", err.Error())
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		st.New.Templates = map[string]string{}
		st.recorder.SetAggregatesRebuilt(false)
		return newWarnStageError(StageAggregates, fmt.Errorf("%w: %w", ErrAggregate, errors.Join(errs...)))
	}
	st.New.Templates = maps.Clone(st.Theme.Hashes)
	st.Report.AggregatesRebuilt = true
	st.recorder.SetAggregatesRebuilt(true)
	return nil
}

// writePage renders p and stores it at rel.
func (st *State) writePage(kind, rel string, p render.Page) error {
	html, err := st.renderer.Render(p)
	if err != nil {
		return err
	}
	return st.writeFile(kind, rel, []byte(html))
}

func (st *State) writeFile(kind, rel string, data []byte) error {
	if _, err := st.writer.Write(rel, data); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	st.recorder.IncPageRendered(kind)
	return nil
}

func writeHome(st *State, listed []*content.Document) error {
	shown := listed
	if n := st.Site.MaxPostsOnIndex(); n > 0 && len(shown) > n {
		shown = shown[:n]
	}
	return st.writePage(aggregateHome, indexFile, render.HomePage{
		Layout:  st.layout(pageIndex, st.Site.Title(), st.Site.Description(), ""),
		Posts:   st.postViews(shown),
		HasMore: len(listed) > len(shown),
	})
}

func writeArchive(st *State, listed []*content.Document) error {
	var years []render.ArchiveYear
	for _, doc := range listed {
		year := doc.Meta.Date.Year()
		if len(years) == 0 || years[len(years)-1].Year != year {
			years = append(years, render.ArchiveYear{Year: year})
		}
		last := &years[len(years)-1]
		last.Posts = append(last.Posts, render.ArchiveEntry{
			MonthDay: doc.Meta.Date.Format("01-02"),
			Title:    doc.Meta.Title,
			URL:      st.URLs.Internal(st.Site.PostLink(doc.Meta.Slug)),
		})
	}
	return st.writePage(aggregateArchive, archiveLink+indexFile, render.ArchivePage{
		Layout: st.layout(pageArchive, "Archive", "", archiveLink),
		Years:  years,
	})
}

// groupTags collects the tags of the listed posts in slug order. The first spelling seen
// on the newest post names the tag.
func groupTags(listed []*content.Document) []tagGroup {
	bySlug := make(map[string]*tagGroup)
	for _, doc := range listed {
		for _, t := range doc.Meta.Tags {
			if t.Slug == "" {
				continue
			}
			g, ok := bySlug[t.Slug]
			if !ok {
				g = &tagGroup{name: t.Name, slug: t.Slug}
				bySlug[t.Slug] = g
			}
			g.posts = append(g.posts, doc)
		}
	}
	out := make([]tagGroup, 0, len(bySlug))
	for _, slug := range sets.Sorted(sets.FromKeys(bySlug)) {
		out = append(out, *bySlug[slug])
	}
	return out
}

func writeTagIndex(st *State, tags []tagGroup) error {
	counts := make([]render.TagCount, 0, len(tags))
	for _, g := range tags {
		counts = append(counts, render.TagCount{Name: g.name, Slug: g.slug, Count: len(g.posts)})
	}
	link := st.Site.TagsDir() + "/"
	return st.writePage(aggregateTags, link+indexFile, render.TagIndexPage{
		Layout: st.layout(pageTags, "Tags", "", link),
		Tags: render.TagCloud(counts, func(slug string) string {
			return st.URLs.Internal(st.Site.TagLink(slug))
		}),
	})
}

func writeTagPages(ctx context.Context, st *State, tags []tagGroup) error {
	var errs []error
	for _, g := range tags {
		if err := ctx.Err(); err != nil {
			return err
		}
		link := st.Site.TagLink(g.slug)
		err := st.writePage(aggregateTag, link+indexFile, render.TagPage{
			Layout: st.layout(pageTag, "Tag: "+g.name, fmt.Sprintf("Posts tagged %s", g.name), link),
			Tag:    g.name,
			Posts:  st.postViews(g.posts),
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("tag %s: %w", g.slug, err))
			continue
		}
		observability.DebugContext(ctx, "Wrote tag page", logfields.Tag(g.name))
	}
	return errors.Join(errs...)
}

// pruneTagDirs removes tag pages for tags no listed post carries any more.
func pruneTagDirs(st *State, tags []tagGroup) error {
	dir := filepath.Join(st.paths.Output, filepath.FromSlash(st.Site.TagsDir()))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read tag directory: %w", err)
	}
	keep := sets.New[string]()
	for _, g := range tags {
		keep.Add(g.slug)
	}
	var errs []error
	for _, e := range entries {
		if !e.IsDir() || keep.Has(e.Name()) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			errs = append(errs, fmt.Errorf("remove stale tag %s: %w", e.Name(), err))
			continue
		}
		st.Report.Deleted++
	}
	return errors.Join(errs...)
}

func writeSitemap(st *State, listed []*content.Document, tags []tagGroup) error {
	u := st.URLs
	entries := []feeds.SitemapEntry{
		{Loc: u.Absolute(""), Priority: feeds.PriorityHome},
		{Loc: u.Absolute(archiveLink), Priority: feeds.PrioritySection},
		{Loc: u.Absolute(st.Site.TagsDir() + "/"), Priority: feeds.PrioritySection},
		{Loc: u.Absolute(notFoundFile), Priority: feeds.PriorityNotFound},
		{Loc: u.Absolute(st.Site.RSSFile()), Priority: feeds.PriorityFeed},
	}
	for _, doc := range sortedDocs(slices.Collect(maps.Values(st.Docs))) {
		if doc.Kind == content.KindAbout && doc.Rendered() {
			entries = append(entries, feeds.SitemapEntry{Loc: u.Absolute(aboutLink), Priority: feeds.PrioritySection})
			break
		}
	}
	for _, doc := range listed {
		entries = append(entries, feeds.SitemapEntry{
			Loc:      u.Absolute(st.Site.PostLink(doc.Meta.Slug)),
			LastMod:  st.lastMod(doc),
			Priority: feeds.PriorityPost,
		})
	}
	for _, g := range tags {
		entries = append(entries, feeds.SitemapEntry{Loc: u.Absolute(st.Site.TagLink(g.slug)), Priority: feeds.PriorityTag})
	}
	doc, err := feeds.Sitemap(entries)
	if err != nil {
		return err
	}
	return st.writeFile(aggregateSitemap, st.Site.SitemapFile(), []byte(doc))
}

// lastMod is the sitemap date of a post: its updated date, else when its source last
// changed, else its publication date.
func (st *State) lastMod(doc *content.Document) string {
	if !doc.Meta.Updated.IsZero() {
		return doc.Meta.Updated.Format(content.DateFormat)
	}
	if when, _ := st.lastModified(doc); !when.IsZero() {
		return when.In(st.Site.Location()).Format(content.DateFormat)
	}
	return doc.Meta.DateString()
}

func writeRSS(st *State, listed []*content.Document) error {
	n := st.Site.FeedItems()
	if n > 0 && len(listed) > n {
		listed = listed[:n]
	}
	items := make([]feeds.Item, 0, len(listed))
	for _, doc := range listed {
		md, err := st.markdownFor(doc)
		if err != nil {
			return fmt.Errorf("feed item %s: %w", doc.RelPath, err)
		}
		items = append(items, feeds.Item{
			Title:     doc.Meta.Title,
			Link:      st.URLs.Absolute(st.Site.PostLink(doc.Meta.Slug)),
			Published: postDate(doc, st.Site.Location()),
			Content:   md.HTML,
		})
	}
	out, err := feeds.RSS(feeds.Channel{
		Title:       st.Site.Title(),
		Link:        st.URLs.Absolute(""),
		Description: st.Site.Description(),
		Language:    st.Site.Language(),
		SelfLink:    st.URLs.Absolute(st.Site.RSSFile()),
		MaxItems:    n,
	}, items, st.started)
	if err != nil {
		return err
	}
	return st.writeFile(aggregateRSS, st.Site.RSSFile(), []byte(out))
}

func writeRobots(st *State) error {
	return st.writeFile(aggregateRobots, robotsFile, []byte(feeds.Robots(st.URLs.Absolute(st.Site.SitemapFile()))))
}
