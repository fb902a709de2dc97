package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	ferrors "git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing files"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	fmt.Println("Initializing blog")
	fmt.Printf("Writing configuration to %s\n", root.Config)
	if err := config.Init(root.Config, i.Force); err != nil {
		fmt.Println("Initialization failed")
		return err
	}
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	post, err := writeSamplePost(cfg.Resolve(cfg.Paths.Content), time.Now(), i.Force)
	if err != nil {
		return err
	}
	if post != "" {
		fmt.Printf("Wrote sample post %s\n", post)
	}
	fmt.Println("initialized successfully")
	return nil
}

const samplePost = `---
title: Hello, world
date: %s
tags: [meta]
summary: The first post of this blog.
---

Welcome! Edit or delete this file, then run ` + "`blogbuilder build`" + `.

## Next steps

- Write posts as Markdown files in this directory.
- Put images and other files in the static directory.
`

// writeSamplePost writes a first post into dir. It returns "" when one already exists and
// force is off.
func writeSamplePost(dir string, now time.Time, force bool) (string, error) {
	path := filepath.Join(dir, now.Format("2006-01-02")+"-hello-world.md")
	if _, err := os.Stat(path); err == nil && !force {
		return "", nil
	}
	// #nosec G301 -- content directories are meant to be shared
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "create content directory").
			WithContext("path", dir).
			Build()
	}
	data := fmt.Sprintf(samplePost, now.Format("2006-01-02"))
	// #nosec G306 -- content files are meant to be shared
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "write sample post").
			WithContext("path", path).
			Build()
	}
	return path, nil
}
