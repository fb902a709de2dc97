package build

import (
	"context"
	"errors"
	"fmt"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/observability"
)

// stageOutcome is the normalized result of one stage execution.
type stageOutcome struct {
	Stage     StageName
	Error     *StageError
	Result    StageResult
	IssueCode ReportIssueCode
	Severity  IssueSeverity
	Abort     bool
}

// runStages executes stages in order, recording timing and stopping on the first fatal
// or canceled stage.
func runStages(ctx context.Context, st *State, stages []StageDef) error {
	for _, def := range stages {
		select {
		case <-ctx.Done():
			se := newCanceledStageError(def.Name, ctx.Err())
			st.Report.StageErrorKinds[def.Name] = se.Kind
			st.Report.AddIssue(IssueCanceled, def.Name, SeverityError, "", se.Error(), se)
			st.Report.RecordStageResult(def.Name, StageResultCanceled, st.recorder)
			st.observer.OnStageComplete(def.Name, 0, StageResultCanceled)
			observability.WarnContext(ctx, "Build canceled", logfields.Stage(string(def.Name)))
			return se
		default:
		}

		stageCtx := observability.WithStage(ctx, string(def.Name))
		st.observer.OnStageStart(def.Name)
		observability.DebugContext(stageCtx, "Stage started")

		t0 := time.Now()
		err := def.Fn(stageCtx, st)
		dur := time.Since(t0)
		st.Report.StageDurations[string(def.Name)] = dur

		out := classifyStageResult(def.Name, err)
		if out.Error != nil {
			st.Report.StageErrorKinds[def.Name] = out.Error.Kind
			st.Report.AddIssue(out.IssueCode, out.Stage, out.Severity, "", out.Error.Error(), out.Error)
		}
		st.Report.RecordStageResult(def.Name, out.Result, st.recorder)
		st.observer.OnStageComplete(def.Name, dur, out.Result)
		observability.DebugContext(stageCtx, "Stage finished",
			logfields.DurationMS(float64(dur.Microseconds())/1000),
			logfields.Kind(string(out.Result)))

		if out.Abort {
			if out.Error != nil {
				return out.Error
			}
			return fmt.Errorf("stage %s aborted", def.Name)
		}
	}
	return nil
}

// classifyStageResult converts a raw error from a stage into a stageOutcome. Errors that
// are not StageErrors are fatal.
func classifyStageResult(stage StageName, err error) stageOutcome {
	if err == nil {
		return stageOutcome{Stage: stage, Result: StageResultSuccess}
	}

	var se *StageError
	if !errors.As(err, &se) {
		se = newFatalStageError(stage, err)
	}
	if errors.Is(se.Err, context.Canceled) || errors.Is(se.Err, context.DeadlineExceeded) {
		se = newCanceledStageError(stage, se.Err)
	}

	switch se.Kind {
	case StageErrorCanceled:
		return stageOutcome{
			Stage:     stage,
			Error:     se,
			Result:    StageResultCanceled,
			IssueCode: IssueCanceled,
			Severity:  SeverityError,
			Abort:     true,
		}
	case StageErrorWarning:
		return stageOutcome{
			Stage:     stage,
			Error:     se,
			Result:    StageResultWarning,
			IssueCode: issueCodeFor(se),
			Severity:  SeverityWarning,
		}
	default:
		return stageOutcome{
			Stage:     stage,
			Error:     se,
			Result:    StageResultFatal,
			IssueCode: issueCodeFor(se),
			Severity:  SeverityError,
			Abort:     true,
		}
	}
}

func issueCodeFor(se *StageError) ReportIssueCode {
	switch se.Stage {
	case StageClassify:
		if errors.Is(se.Err, ErrDiscovery) {
			return IssueContentRootMissing
		}
		return IssueGenericStageError
	case StageThemeCheck:
		return IssueTemplateInvalid
	case StageStaticAssets:
		return IssueStaticCopyFailure
	case StageReconcile:
		return IssueCleanupFailure
	case StageRenderPages:
		return IssueRenderFailure
	case StageAggregates:
		return IssueAggregateFailure
	case StagePersistManifest:
		return IssueManifestSaveFailure
	case StageEnsureDirs, StageWiden:
		return IssueGenericStageError
	default:
		return IssueGenericStageError
	}
}
