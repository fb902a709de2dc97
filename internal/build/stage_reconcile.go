package build

import (
	"context"
	"errors"
	"log/slog"

	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/observability"
)

// stageReconcile deletes the outputs of documents whose source disappeared. Their entries
// are never copied into the new manifest.
func stageReconcile(ctx context.Context, st *State) error {
	res := st.reconciler.Reconcile(st.Old, st.Current)
	for _, path := range res.Orphans {
		st.Agg.MarkRemoved(path)
		st.Agg.Drop(path)
	}
	st.Report.Deleted += len(res.Removed)
	st.recorder.AddOrphansRemoved(len(res.Removed))
	if len(res.Orphans) > 0 {
		observability.InfoContext(ctx, "Reconciled orphans",
			logfields.Count(len(res.Orphans)), slog.Int("removed", len(res.Removed)))
	}
	if len(res.Warnings) == 0 {
		return nil
	}
	for _, w := range res.Warnings {
		st.issue(IssueCleanupFailure, StageReconcile, SeverityWarning, "", w.Error())
	}
	return newWarnStageError(StageReconcile, errors.Join(res.Warnings...))
}
