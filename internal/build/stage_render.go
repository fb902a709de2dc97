package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/content"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/observability"
)

// stageRenderPages writes the page of every document in the rebuild set. A failed page
// keeps the build going; its manifest hash is cleared so the next run retries it.
func stageRenderPages(ctx context.Context, st *State) error {
	var targets []*content.Document
	renderable := 0
	for path, doc := range st.Docs {
		if !doc.Rendered() {
			continue
		}
		renderable++
		if st.Agg.Has(path) {
			targets = append(targets, doc)
		}
	}
	st.Report.Skipped = renderable - len(targets)
	if len(targets) == 0 {
		observability.InfoContext(ctx, "No pages to render", logfields.Count(renderable))
		return nil
	}

	listed := listedPosts(st)
	concurrency := min(max(st.workers, 1), len(targets))

	tasks := make(chan *content.Document)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var errs []error
	worker := func() {
		defer wg.Done()
		for doc := range tasks {
			select {
			case <-ctx.Done():
				return
			default:
			}
			if err := renderDocument(ctx, st, doc, listed); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}
	}
	wg.Add(concurrency)
	for range concurrency {
		go worker()
	}
	for _, doc := range sortedDocs(targets) {
		select {
		case <-ctx.Done():
			close(tasks)
			wg.Wait()
			return newCanceledStageError(StageRenderPages, ctx.Err())
		default:
		}
		tasks <- doc
	}
	close(tasks)
	wg.Wait()
	select {
	case <-ctx.Done():
		return newCanceledStageError(StageRenderPages, ctx.Err())
	default:
	}

	observability.InfoContext(ctx, "Rendered pages",
		logfields.Count(st.Report.RenderedPages), slog.Int("skipped", st.Report.Skipped))
	if len(errs) > 0 {
		return newWarnStageError(StageRenderPages, fmt.Errorf("%w: %w", ErrRender, errors.Join(errs...)))
	}
	return nil
}

func renderDocument(ctx context.Context, st *State, doc *content.Document, listed []*content.Document) error {
	ctx = observability.WithDocument(ctx, doc.RelPath)
	start := time.Now()
	kind := doc.Kind.String()

	rel, err := writeDocument(st, doc, listed)
	if err != nil {
		st.clearHash(doc.RelPath)
		st.recorder.IncPageFailed(kind)
		st.mu.Lock()
		st.Report.FailedPages++
		st.mu.Unlock()
		st.issue(IssueRenderFailure, StageRenderPages, SeverityWarning, doc.RelPath, err.Error())
		observability.WarnContext(ctx, "Failed to render page", logfields.Error(err))
		return fmt.Errorf("%s: %w", doc.RelPath, err)
	}

	st.recorder.IncPageRendered(kind)
	st.mu.Lock()
	st.Report.RenderedPages++
	st.mu.Unlock()
	observability.DebugContext(ctx, "Wrote page", logfields.Output(rel), logfields.Elapsed(start))
	return nil
}

func writeDocument(st *State, doc *content.Document, listed []*content.Document) (string, error) {
	page, rel, err := st.pageFor(doc, listed)
	if err != nil {
		return "", err
	}
	html, err := st.renderer.Render(page)
	if err != nil {
		return "", err
	}
	if _, err := st.writer.Write(rel, []byte(html)); err != nil {
		return "", fmt.Errorf("write %s: %w", rel, err)
	}
	return rel, nil
}
