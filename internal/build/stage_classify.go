package build

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"git.home.luguber.info/inful/blogbuilder/internal/content"
	"git.home.luguber.info/inful/blogbuilder/internal/incremental"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/manifest"
	"git.home.luguber.info/inful/blogbuilder/internal/observability"
)

// stageClassify discovers the sources, hashes and parses each one, records its new
// manifest entry and feeds its staleness decision to the aggregator.
func stageClassify(ctx context.Context, st *State) error {
	sources, err := content.Discover(st.paths.Content, content.DiscoverOptions{
		Include:    st.cfg.Build.Include,
		IgnoreFile: st.paths.IgnoreFile,
		Logger:     observability.Logger(ctx),
	})
	if err != nil {
		return newFatalStageError(StageClassify, fmt.Errorf("%w: %w", ErrDiscovery, err))
	}
	st.history = content.NewHistory(st.paths.Content)
	observability.InfoContext(ctx, "Discovered sources", logfields.Count(len(sources)))

	opts := content.LoadOptions{AboutPage: st.cfg.Build.AboutPage}
	var errs []error
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return newCanceledStageError(StageClassify, err)
		}
		if err := classifySource(observability.WithDocument(ctx, src.RelPath), st, src, opts); err != nil {
			errs = append(errs, err)
		}
	}

	forceOnFeedChange(ctx, st)

	if len(errs) > 0 {
		return newWarnStageError(StageClassify, errors.Join(errs...))
	}
	return nil
}

func classifySource(ctx context.Context, st *State, src content.Source, opts content.LoadOptions) error {
	path := src.RelPath
	st.Report.Documents++

	doc, err := content.Load(src, opts)
	if err != nil {
		observability.WarnContext(ctx, "Failed to read document", logfields.Error(err))
		st.issue(IssueDocumentUnreadable, StageClassify, SeverityWarning, path, err.Error())
		// Keep the previous entry, minus its hash, so the output survives and is retried.
		if old, ok := st.Old.Entry(path); ok {
			old.ContentHash = ""
			old.Tags = slices.Clone(old.Tags)
			st.New.Posts[path] = old
			st.Current.Add(path)
		}
		return err
	}

	for _, w := range doc.Warnings {
		observability.WarnContext(ctx, "Front matter problem", logfields.Reason(w))
		st.issue(IssueFrontMatter, StageClassify, SeverityWarning, path, w)
	}

	if perr := doc.Publishable(); perr != nil {
		st.Report.Excluded++
		observability.WarnContext(ctx, "Document excluded", logfields.Error(perr))
		st.issue(IssueDocumentExcluded, StageClassify, SeverityWarning, path, perr.Error())
		return fmt.Errorf("%s: %w", path, perr)
	}

	st.Docs[path] = doc
	st.Current.Add(path)

	entry := manifest.Entry{
		ContentHash: doc.Hash,
		Title:       doc.Meta.Title,
		Date:        doc.Meta.DateString(),
		Output:      outputFor(st, doc),
		Tags:        slices.Sorted(slices.Values(doc.Meta.TagNames())),
		Hidden:      doc.Meta.Hidden,
		Status:      string(doc.Meta.Status),
	}

	var prev *manifest.Entry
	old, hadOld := st.Old.Entry(path)
	if hadOld {
		prev = &old
	}
	cls := incremental.Classify(incremental.ClassifyInput{
		CurrentHash:  doc.Hash,
		Old:          prev,
		ThemeChanged: st.Theme.Changed,
		Projection:   incremental.ProjectionOf(entry),
	})
	st.Classifications[path] = cls
	st.Agg.Observe(path, cls)
	if !hadOld {
		st.Agg.MarkAdded(path)
	}
	st.New.Posts[path] = entry
	st.Report.Reasons[string(cls.Reason)]++
	st.recorder.IncDocument(string(cls.Reason))

	var renameErr error
	if hadOld && old.Output != entry.Output {
		removed, err := st.reconciler.RemoveRenamed(old.Output, entry.Output)
		switch {
		case err != nil:
			observability.WarnContext(ctx, "Failed to remove previous output",
				logfields.Link(old.Output.String()), logfields.Error(err))
			st.issue(IssueCleanupFailure, StageClassify, SeverityWarning, path, err.Error())
			renameErr = err
		case removed:
			st.Report.Deleted++
			observability.InfoContext(ctx, "Deleted previous output",
				logfields.Link(old.Output.String()), logfields.Output(entry.Output.String()))
		}
		if doc.Rendered() {
			st.Agg.Widen([]string{path})
		}
	}

	switch cls.Reason {
	case incremental.ReasonNew, incremental.ReasonContentChanged, incremental.ReasonMissingLink:
		observability.InfoContext(ctx, "Content changed", logfields.Reason(string(cls.Reason)), logfields.Kind(doc.Kind.String()))
	case incremental.ReasonThemeChanged:
		observability.DebugContext(ctx, "Theme rebuild", logfields.Kind(doc.Kind.String()))
	case incremental.ReasonUnchanged:
		if cls.MetadataChanged {
			observability.InfoContext(ctx, "Metadata changed", logfields.Kind(doc.Kind.String()))
		} else {
			observability.DebugContext(ctx, "Skipped, unchanged")
		}
	}
	return renameErr
}

func outputFor(st *State, doc *content.Document) manifest.Output {
	switch doc.Kind {
	case content.KindNotFound:
		return manifest.NotFound()
	case content.KindAbout, content.KindHidden:
		return manifest.Hidden()
	default:
		return manifest.Indexed(st.Site.PostLink(doc.Meta.Slug))
	}
}

// forceOnFeedChange flags the aggregates when a post inside the RSS window changed: the
// feed embeds full bodies.
func forceOnFeedChange(ctx context.Context, st *State) {
	listed := listedPosts(st)
	if n := st.Site.FeedItems(); n > 0 && len(listed) > n {
		listed = listed[:n]
	}
	for _, doc := range listed {
		if st.Classifications[doc.RelPath].NeedsFullRegen {
			st.Agg.ForceAggregates(incremental.AggregateFeedContent)
			observability.DebugContext(ctx, "Feed content changed", logfields.Path(doc.RelPath))
			return
		}
	}
}
