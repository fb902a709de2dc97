package build

import (
	"path/filepath"
	"sync"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/content"
	"git.home.luguber.info/inful/blogbuilder/internal/incremental"
	"git.home.luguber.info/inful/blogbuilder/internal/manifest"
	"git.home.luguber.info/inful/blogbuilder/internal/markdown"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/render"
	"git.home.luguber.info/inful/blogbuilder/internal/util/sets"
)

// Paths are the resolved filesystem locations of one build.
type Paths struct {
	Content    string
	Output     string
	Static     string
	Stylesheet string
	Templates  string
	State      string
	CNAME      string
	ConfigFile string
	Manifest   string
	IgnoreFile string
}

func resolvePaths(cfg *config.Config) Paths {
	contentDir := cfg.Resolve(cfg.Paths.Content)
	ignore := cfg.Build.IgnoreFile
	if ignore != "" && !filepath.IsAbs(ignore) {
		ignore = filepath.Join(contentDir, ignore)
	}
	state := cfg.StateDir()
	return Paths{
		Content:    contentDir,
		Output:     cfg.Resolve(cfg.Paths.Output),
		Static:     cfg.Resolve(cfg.Paths.Static),
		Stylesheet: cfg.Resolve(cfg.Paths.Stylesheet),
		Templates:  cfg.Resolve(cfg.Paths.Templates),
		State:      state,
		CNAME:      cfg.Resolve(cfg.Paths.CNAME),
		ConfigFile: cfg.Source(),
		Manifest:   filepath.Join(state, manifest.FileName),
		IgnoreFile: ignore,
	}
}

// State is the mutable state of one run, shared by the stages.
type State struct {
	cfg   *config.Config
	paths Paths

	Report *Report
	// Old is the manifest of the previous run; New is built during this one.
	Old        *manifest.Manifest
	New        *manifest.Manifest
	FirstBuild bool

	Site  config.Site
	URLs  render.URLs
	Theme incremental.ThemeCheck
	Agg   *incremental.Aggregator

	// Docs holds every loaded document by source path; Current the paths kept in New.
	Docs            map[string]*content.Document
	Current         sets.Set[string]
	Classifications map[string]incremental.Classification

	renderer   *render.Renderer
	markdown   *markdown.Renderer
	reconciler *incremental.Reconciler
	history    *content.History
	store      *manifest.Store
	writer     PageWriter
	recorder   metrics.Recorder
	observer   Observer
	started    time.Time
	executable string
	workers    int

	mu       sync.Mutex
	rendered map[string]markdown.Result
	modified map[string]lastModified
}

type lastModified struct {
	when   time.Time
	source string
}

// markdownFor renders a document body once per run.
func (st *State) markdownFor(doc *content.Document) (markdown.Result, error) {
	st.mu.Lock()
	res, ok := st.rendered[doc.RelPath]
	st.mu.Unlock()
	if ok {
		return res, nil
	}
	res, err := st.markdown.Render(doc.Body)
	if err != nil {
		return markdown.Result{}, err
	}
	st.mu.Lock()
	st.rendered[doc.RelPath] = res
	st.mu.Unlock()
	return res, nil
}

// lastModified returns when a document last changed; zero when unknown.
func (st *State) lastModified(doc *content.Document) (time.Time, string) {
	st.mu.Lock()
	lm, ok := st.modified[doc.RelPath]
	st.mu.Unlock()
	if ok {
		return lm.when, lm.source
	}
	when, source, err := st.history.LastModified(doc.Path)
	if err != nil {
		when, source = time.Time{}, ""
	}
	st.mu.Lock()
	st.modified[doc.RelPath] = lastModified{when: when, source: source}
	st.mu.Unlock()
	return when, source
}

// issue records a per-document problem on the report.
func (st *State) issue(code ReportIssueCode, stage StageName, severity IssueSeverity, path, msg string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.Report.AddIssue(code, stage, severity, path, msg, nil)
}

// setEntry stores a manifest entry under the state lock.
func (st *State) setEntry(path string, e manifest.Entry) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.New.Posts[path] = e
}

// clearHash forgets a document's hash so the next run regenerates it.
func (st *State) clearHash(path string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if e, ok := st.New.Posts[path]; ok {
		e.ContentHash = ""
		st.New.Posts[path] = e
	}
}
