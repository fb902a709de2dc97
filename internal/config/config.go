package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file looked up when --config is not given.
const DefaultFile = "blogbuilder.yaml"

// Config is the on-disk configuration of a blog.
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Paths   PathsConfig   `yaml:"paths"`
	Build   BuildConfig   `yaml:"build"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Metrics MetricsConfig `yaml:"metrics,omitempty"`

	// file the configuration was read from; empty when defaults are used
	source string
	// directory relative paths resolve against
	baseDir string
}

// SiteConfig describes the published blog.
type SiteConfig struct {
	Title           string `yaml:"title"`
	Description     string `yaml:"description,omitempty"`
	Author          string `yaml:"author,omitempty"`
	BaseURL         string `yaml:"base_url"`
	Root            string `yaml:"root,omitempty"` // URL prefix when served below the domain root, e.g. /blog/
	Language        string `yaml:"language,omitempty"`
	Timezone        string `yaml:"timezone,omitempty"` // for footer timestamps
	MaxPostsOnIndex int    `yaml:"max_posts_on_index,omitempty"`
	FeedItems       int    `yaml:"feed_items,omitempty"`
}

// PathsConfig locates inputs and outputs on disk.
type PathsConfig struct {
	Content    string `yaml:"content"`
	Output     string `yaml:"output"`
	Static     string `yaml:"static,omitempty"`
	Stylesheet string `yaml:"stylesheet,omitempty"`
	Templates  string `yaml:"templates,omitempty"`
	State      string `yaml:"state,omitempty"` // where the manifest and build report live
	CNAME      string `yaml:"cname,omitempty"`
}

// BuildConfig tunes discovery and the incremental engine.
type BuildConfig struct {
	Include         []string `yaml:"include,omitempty"`
	IgnoreFile      string   `yaml:"ignore_file,omitempty"`
	ThemeGlobs      []string `yaml:"theme_globs,omitempty"`
	TrackExecutable *bool    `yaml:"track_executable,omitempty"`
	AboutPage       string   `yaml:"about_page,omitempty"`
	Concurrency     int      `yaml:"concurrency,omitempty"`
	// RebuildNeighbours also rewrites posts whose previous/next links moved.
	RebuildNeighbours bool `yaml:"rebuild_neighbours,omitempty"`
}

// OutputConfig names directories and files inside the output tree.
type OutputConfig struct {
	PostsDir  string `yaml:"posts_dir,omitempty"`
	TagsDir   string `yaml:"tags_dir,omitempty"`
	AssetsDir string `yaml:"assets_dir,omitempty"`
	Sitemap   string `yaml:"sitemap,omitempty"`
	RSS       string `yaml:"rss,omitempty"`
}

// MetricsConfig enables the Prometheus text file written at the end of a build.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// Load reads the configuration at path. A missing file is not an error: the defaults are
// returned and Source reports "". Environment files next to the configuration are loaded
// first so that ${VAR} references can be expanded.
func Load(path string) (*Config, error) {
	dir := filepath.Dir(path)
	if err := loadEnvFiles(dir); err != nil {
		slog.Warn("Failed to load environment file", "dir", dir, "error", err)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Info("Configuration file not found, using defaults", "path", path)
		cfg := Default()
		cfg.baseDir = "."
		return cfg, nil
	}
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "read configuration").
			Fatal().
			WithContext("path", path).
			Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.source = path
	cfg.baseDir = dir
	return cfg, nil
}

// Parse decodes YAML configuration, expands environment references, applies defaults and
// validates the result.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "parse configuration").
			Fatal().
			UserAction().
			Build()
	}

	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	cfg.baseDir = "."
	return cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.baseDir = "."
	return cfg
}

// Source returns the file the configuration was loaded from, or "".
func (c *Config) Source() string { return c.source }

// BaseDir returns the directory relative paths are resolved against.
func (c *Config) BaseDir() string {
	if c.baseDir == "" {
		return "."
	}
	return c.baseDir
}

// Resolve makes a configured path absolute-or-base-relative.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.BaseDir(), p)
}

// StateDir is the resolved directory holding the manifest and build report.
func (c *Config) StateDir() string {
	if c.Paths.State == "" {
		return c.BaseDir()
	}
	return c.Resolve(c.Paths.State)
}

// TrackExecutable reports whether the builder binary is a theme dependency.
func (c *Config) TrackExecutable() bool {
	return c.Build.TrackExecutable == nil || *c.Build.TrackExecutable
}

// Init writes an example configuration to path.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.ValidationError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", path)).Build()
	}

	example := Default()
	example.Site.Title = "My Blog"
	example.Site.Description = "Notes and essays"
	example.Site.Author = "Jane Doe"
	example.Site.BaseURL = "https://example.com"
	example.Build.TrackExecutable = nil

	data, err := yaml.Marshal(example)
	if err != nil {
		return fmt.Errorf("marshal example config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write configuration").
			WithContext("path", path).
			Build()
	}
	return nil
}
