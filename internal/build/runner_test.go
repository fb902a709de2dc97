package build

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
)

type stageLog struct {
	NoopObserver
	started  []StageName
	results  map[StageName]StageResult
	finished bool
}

func (o *stageLog) OnStageStart(s StageName) { o.started = append(o.started, s) }

func (o *stageLog) OnStageComplete(s StageName, _ time.Duration, r StageResult) {
	if o.results == nil {
		o.results = map[StageName]StageResult{}
	}
	o.results[s] = r
}

func newRunnerState(obs Observer) *State {
	return &State{
		Report:   NewReport("test", time.Now()),
		recorder: metrics.NoopRecorder{},
		observer: obs,
	}
}

func TestRunStagesWarningContinues(t *testing.T) {
	obs := &stageLog{}
	st := newRunnerState(obs)
	var ran []string
	defs := NewPipeline().
		Add(StageStaticAssets, func(context.Context, *State) error {
			ran = append(ran, "static")
			return newWarnStageError(StageStaticAssets, errors.New("copy failed"))
		}).
		Add(StageClassify, func(context.Context, *State) error {
			ran = append(ran, "classify")
			return nil
		}).
		Build()

	err := runStages(context.Background(), st, defs)

	require.NoError(t, err)
	assert.Equal(t, []string{"static", "classify"}, ran)
	assert.Equal(t, StageResultWarning, obs.results[StageStaticAssets])
	assert.Equal(t, StageResultSuccess, obs.results[StageClassify])
	require.Len(t, st.Report.Warnings, 1)
	assert.Equal(t, IssueStaticCopyFailure, st.Report.Issues[0].Code)
	assert.Equal(t, 1, st.Report.StageCounts[StageStaticAssets].Warning)
}

func TestRunStagesFatalAborts(t *testing.T) {
	obs := &stageLog{}
	st := newRunnerState(obs)
	defs := NewPipeline().
		Add(StageClassify, func(context.Context, *State) error { return errors.New("plain error") }).
		Add(StageRenderPages, func(context.Context, *State) error {
			t.Fatal("stage after a fatal error ran")
			return nil
		}).
		Build()

	err := runStages(context.Background(), st, defs)

	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageErrorFatal, se.Kind)
	assert.Equal(t, []StageName{StageClassify}, obs.started)
	assert.Equal(t, StageErrorFatal, st.Report.StageErrorKinds[StageClassify])
}

func TestRunStagesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	st := newRunnerState(&stageLog{})
	defs := NewPipeline().
		Add(StageClassify, func(context.Context, *State) error {
			cancel()
			return nil
		}).
		Add(StageRenderPages, func(context.Context, *State) error {
			t.Fatal("stage after cancellation ran")
			return nil
		}).
		Build()

	err := runStages(ctx, st, defs)

	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageErrorCanceled, se.Kind)
	assert.Equal(t, StageRenderPages, se.Stage)
	st.Report.DeriveOutcome()
	assert.Equal(t, OutcomeCanceled, st.Report.Outcome)
}

func TestClassifyStageResult(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		result StageResult
		code   ReportIssueCode
		abort  bool
	}{
		{"nil", nil, StageResultSuccess, "", false},
		{"discovery", newFatalStageError(StageClassify, ErrDiscovery), StageResultFatal, IssueContentRootMissing, true},
		{"deadline", newWarnStageError(StageRenderPages, context.DeadlineExceeded), StageResultCanceled, IssueCanceled, true},
		{"aggregate warning", newWarnStageError(StageAggregates, ErrAggregate), StageResultWarning, IssueAggregateFailure, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stage := StageClassify
			var se *StageError
			if errors.As(tc.err, &se) {
				stage = se.Stage
			}
			out := classifyStageResult(stage, tc.err)
			assert.Equal(t, tc.result, out.Result)
			assert.Equal(t, tc.code, out.IssueCode)
			assert.Equal(t, tc.abort, out.Abort)
		})
	}
}

func TestPipelineAddIf(t *testing.T) {
	noop := func(context.Context, *State) error { return nil }
	defs := NewPipeline().
		Add(StageEnsureDirs, noop).
		AddIf(false, StageStaticAssets, noop).
		AddIf(true, StageClassify, noop).
		Build()
	require.Len(t, defs, 2)
	assert.Equal(t, StageClassify, defs[1].Name)
}
