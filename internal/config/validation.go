package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	ferrors "git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

// Validate checks a configuration after defaults have been applied.
func Validate(cfg *Config) error {
	for _, check := range []func(*Config) error{
		validateSite,
		validatePaths,
		validateGlobs,
	} {
		if err := check(cfg); err != nil {
			return err
		}
	}
	return nil
}

func validateSite(cfg *Config) error {
	u, err := url.Parse(cfg.Site.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ferrors.ConfigError("site.base_url must be an absolute http(s) URL").
			WithContext("value", cfg.Site.BaseURL).
			Build()
	}
	if _, err := time.LoadLocation(cfg.Site.Timezone); err != nil {
		return ferrors.ConfigError("site.timezone is not a known IANA zone").
			WithCause(err).
			WithContext("value", cfg.Site.Timezone).
			Build()
	}
	return nil
}

func validatePaths(cfg *Config) error {
	content := filepath.Clean(cfg.Paths.Content)
	output := filepath.Clean(cfg.Paths.Output)
	if content == output {
		return ferrors.ConfigError("paths.content and paths.output must differ").
			WithContext("path", content).
			Build()
	}
	if rel, err := filepath.Rel(output, content); err == nil && !startsWithParent(rel) {
		return ferrors.ConfigError("paths.content must not live inside paths.output").
			WithContext("content", content).
			WithContext("output", output).
			Build()
	}
	for name, dir := range map[string]string{
		"output.posts_dir":  cfg.Output.PostsDir,
		"output.tags_dir":   cfg.Output.TagsDir,
		"output.assets_dir": cfg.Output.AssetsDir,
	} {
		if dir == "" || dir == "." || startsWithParent(filepath.Clean(dir)) {
			return ferrors.ConfigError(fmt.Sprintf("%s must be a relative directory name", name)).
				WithContext("value", dir).
				Build()
		}
	}
	return nil
}

func validateGlobs(cfg *Config) error {
	for _, list := range [][]string{cfg.Build.Include, cfg.Build.ThemeGlobs} {
		for _, g := range list {
			if !doublestar.ValidatePattern(g) {
				return ferrors.ConfigError("invalid glob pattern").
					WithContext("pattern", g).
					Build()
			}
		}
	}
	return nil
}

func startsWithParent(rel string) bool {
	return rel == ".." || len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator)
}
