package build

import (
	"context"

	ferrors "git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/observability"
)

// stagePersistManifest writes the new manifest. A save failure only costs the next run
// its incremental state.
func stagePersistManifest(ctx context.Context, st *State) error {
	if err := ctx.Err(); err != nil {
		return newCanceledStageError(StagePersistManifest, err)
	}
	if err := st.store.Save(st.New); err != nil {
		cerr := ferrors.WrapError(err, ferrors.CategoryManifest, "persist manifest").
			Warning().
			WithContext("path", st.paths.Manifest).
			Build()
		st.issue(IssueManifestSaveFailure, StagePersistManifest, SeverityWarning, st.paths.Manifest, err.Error())
		observability.WarnContext(ctx, "Failed to save manifest", logfields.Path(st.paths.Manifest), logfields.Error(err))
		return newWarnStageError(StagePersistManifest, cerr)
	}
	st.Report.ManifestPersisted = true
	entries := len(st.New.Posts)
	st.recorder.SetManifestEntries(entries)
	observability.InfoContext(ctx, "Saved manifest", logfields.Path(st.paths.Manifest), logfields.Count(entries))
	return nil
}
