package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/build"
	"git.home.luguber.info/inful/blogbuilder/internal/config"
	ferrors "git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/manifest"
)

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, config.DefaultFile)
	data := `site:
  title: CLI Blog
  base_url: https://cli.example.com
paths:
  content: markdown
  output: _site
  state: .state
build:
  track_executable: false
metrics:
  textfile: metrics/blogbuilder.prom
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestBuildCmdRun(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)
	_, err := writeSamplePost(filepath.Join(dir, "markdown"), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), false)
	require.NoError(t, err)

	root := &CLI{Config: cfgPath}
	cmd := &BuildCmd{NoColor: true}
	require.NoError(t, cmd.Run(&Global{}, root))

	assert.FileExists(t, filepath.Join(dir, "_site", "posts", "hello-world", "index.html"))
	assert.FileExists(t, filepath.Join(dir, ".state", manifest.FileName))
	assert.FileExists(t, filepath.Join(dir, ".state", build.ReportJSONFile))

	prom, err := os.ReadFile(filepath.Join(dir, "metrics", "blogbuilder.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(prom), "blogbuilder_")
}

func TestBuildCmdMissingContent(t *testing.T) {
	dir := t.TempDir()
	root := &CLI{Config: writeConfig(t, dir)}

	err := (&BuildCmd{NoColor: true}).Run(&Global{}, root)

	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
	assert.Equal(t, 4, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestBuildCmdApply(t *testing.T) {
	cfg := config.Default()
	(&BuildCmd{Output: "public", Concurrency: 3}).apply(cfg)
	assert.Equal(t, "public", cfg.Paths.Output)
	assert.Equal(t, 3, cfg.Build.Concurrency)

	cfg = config.Default()
	(&BuildCmd{}).apply(cfg)
	assert.Equal(t, config.DefaultOutputDir, cfg.Paths.Output)
	assert.Equal(t, 1, cfg.Build.Concurrency)
}

func TestClassifyRunError(t *testing.T) {
	assert.NoError(t, classifyRunError(nil))

	canceled := &build.StageError{Kind: build.StageErrorCanceled, Stage: build.StageRenderPages, Err: context.Canceled}
	assert.True(t, ferrors.HasCategory(classifyRunError(canceled), ferrors.CategoryRuntime))

	fatal := &build.StageError{Kind: build.StageErrorFatal, Stage: build.StageEnsureDirs, Err: errors.New("read-only")}
	err := classifyRunError(fatal)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryBuild))
	assert.Contains(t, err.Error(), "ensure_dirs")

	cfgErr := ferrors.ConfigError("bad base_url").Build()
	assert.Same(t, cfgErr, classifyRunError(cfgErr))
}

func TestInitCmdRun(t *testing.T) {
	dir := t.TempDir()
	root := &CLI{Config: filepath.Join(dir, config.DefaultFile)}

	require.NoError(t, (&InitCmd{}).Run(&Global{}, root))
	assert.FileExists(t, root.Config)
	posts, err := filepath.Glob(filepath.Join(dir, config.DefaultContentDir, "*-hello-world.md"))
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	err = (&InitCmd{}).Run(&Global{}, root)
	require.Error(t, err)
	require.NoError(t, (&InitCmd{Force: true}).Run(&Global{}, root))
}

func TestWriteSamplePostKeepsExisting(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	path, err := writeSamplePost(dir, now, false)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("mine"), 0o600))

	again, err := writeSamplePost(dir, now, false)
	require.NoError(t, err)
	assert.Empty(t, again)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "mine", string(data))
}

func TestPrintManifestSummary(t *testing.T) {
	var buf bytes.Buffer
	printManifestSummary(&buf, "m.json", manifest.New())
	assert.Contains(t, buf.String(), "first build")

	m := manifest.New()
	m.Posts["a.md"] = manifest.Entry{ContentHash: "h", Output: manifest.Indexed("posts/a/")}
	m.Posts["about.md"] = manifest.Entry{ContentHash: "h", Output: manifest.Hidden()}
	m.Posts["b.md"] = manifest.Entry{Output: manifest.Indexed("posts/b/"), Status: "draft"}
	m.Templates["embedded:base.html"] = "x"

	buf.Reset()
	printManifestSummary(&buf, "m.json", m)
	out := buf.String()
	assert.Contains(t, out, "documents     3")
	assert.Contains(t, out, "indexed     2")
	assert.Contains(t, out, "hidden      1")
	assert.Contains(t, out, "drafts      1")
	assert.Contains(t, out, "pending     1")
	assert.Contains(t, out, "embedded:base.html")
}

func TestPrintRawManifestMissing(t *testing.T) {
	var buf bytes.Buffer
	err := printRawManifest(&buf, filepath.Join(t.TempDir(), manifest.FileName))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
}

func TestPrinterSummary(t *testing.T) {
	r := build.NewReport("id", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	r.Documents = 3
	r.RenderedPages = 1
	r.Skipped = 2
	r.Reasons["unchanged"] = 2
	r.Reasons["content_changed"] = 1
	r.AggregatesRebuilt = true
	r.AggregateReasons = []string{"feed_content_changed"}
	r.AddIssue(build.IssueFrontMatter, build.StageClassify, build.SeverityWarning, "a.md", "bad date", nil)
	r.Finish(r.Start.Add(250 * time.Millisecond))
	r.DeriveOutcome()

	var buf bytes.Buffer
	newPrinter(&buf, true).summary(r)
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "✓ Build success"))
	assert.Contains(t, out, "rendered   1, skipped 2, failed 0")
	assert.Contains(t, out, "feed_content_changed")
	assert.Contains(t, out, "FRONT_MATTER a.md: bad date")
	assert.Contains(t, out, "250ms")
	assert.NotContains(t, out, "\x1b[")
}

func TestCLILevel(t *testing.T) {
	t.Setenv(LogLevelEnv, "")
	assert.Equal(t, config.LogLevelDebug, (&CLI{Verbose: true}).level(config.LogLevelError))
	assert.Equal(t, config.LogLevelError, (&CLI{}).level(config.LogLevelError))
	assert.Equal(t, config.LogLevelInfo, (&CLI{}).level(""))

	t.Setenv(LogLevelEnv, "warning")
	assert.Equal(t, config.LogLevelWarn, (&CLI{}).level(config.LogLevelError))
}
