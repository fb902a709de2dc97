package build

import (
	"context"
	"os"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

// stageEnsureDirs creates the output skeleton and the state directory. Existing output is
// never cleared: incremental builds rely on it.
func stageEnsureDirs(_ context.Context, st *State) error {
	out := st.cfg.Output
	dirs := []string{
		st.paths.Output,
		filepath.Join(st.paths.Output, filepath.FromSlash(out.PostsDir)),
		filepath.Join(st.paths.Output, filepath.FromSlash(out.TagsDir)),
		filepath.Join(st.paths.Output, filepath.FromSlash(out.AssetsDir)),
		st.paths.State,
	}
	for _, d := range dirs {
		// #nosec G301 -- published site directories are world-readable
		if err := os.MkdirAll(d, 0o755); err != nil {
			return newFatalStageError(StageEnsureDirs,
				ferrors.WrapError(err, ferrors.CategoryFileSystem, "create directory").
					Fatal().
					WithContext("path", d).
					Build())
		}
	}
	return nil
}
