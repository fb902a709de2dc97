package build

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestReportDeriveOutcome(t *testing.T) {
	cases := []struct {
		name string
		prep func(r *Report)
		want BuildOutcome
	}{
		{"clean", func(*Report) {}, OutcomeSuccess},
		{"warning", func(r *Report) {
			r.AddIssue(IssueRenderFailure, StageRenderPages, SeverityWarning, "a.md", "boom", errors.New("boom"))
		}, OutcomeWarning},
		{"fatal", func(r *Report) {
			se := newFatalStageError(StageClassify, ErrDiscovery)
			r.AddIssue(IssueContentRootMissing, StageClassify, SeverityError, "", se.Error(), se)
		}, OutcomeFailed},
		{"canceled", func(r *Report) {
			se := newCanceledStageError(StageRenderPages, context.Canceled)
			r.AddIssue(IssueCanceled, StageRenderPages, SeverityError, "", se.Error(), se)
		}, OutcomeCanceled},
		{"issue without error stays clean", func(r *Report) {
			r.AddIssue(IssueFrontMatter, StageClassify, SeverityWarning, "a.md", "bad date", nil)
		}, OutcomeSuccess},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewReport("id", time.Now())
			tc.prep(r)
			r.DeriveOutcome()
			if r.Outcome != tc.want {
				t.Fatalf("outcome = %s, want %s", r.Outcome, tc.want)
			}
		})
	}
}

func TestReportPersist(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	r := NewReport("build-1", start)
	r.Documents = 4
	r.RenderedPages = 2
	r.Skipped = 2
	r.ThemeChangedKeys = []string{"templates/post.html", "embedded:base.html"}
	r.AddIssue(IssueDocumentExcluded, StageClassify, SeverityWarning, "x.md", "missing date", nil)
	r.Finish(start.Add(1500 * time.Millisecond))
	r.DeriveOutcome()

	if err := r.Persist(dir); err != nil {
		t.Fatalf("persist: %v", err)
	}

	// #nosec G304 -- test reads its own output
	b, err := os.ReadFile(filepath.Join(dir, ReportJSONFile))
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	var parsed ReportSerializable
	if err := json.Unmarshal(b, &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if parsed.Outcome != "success" || parsed.RenderedPages != 2 || parsed.BuildID != "build-1" {
		t.Fatalf("unexpected report: %+v", parsed)
	}
	if parsed.ThemeChangedKeys[0] != "embedded:base.html" {
		t.Fatalf("theme keys not sorted: %v", parsed.ThemeChangedKeys)
	}
	if len(parsed.Issues) != 1 || parsed.Issues[0].Code != IssueDocumentExcluded {
		t.Fatalf("issues = %+v", parsed.Issues)
	}

	// #nosec G304 -- test reads its own output
	txt, err := os.ReadFile(filepath.Join(dir, ReportTextFile))
	if err != nil {
		t.Fatalf("read text: %v", err)
	}
	for _, want := range []string{"documents=4", "rendered=2", "outcome=success", "duration=1.5s"} {
		if !strings.Contains(string(txt), want) {
			t.Errorf("summary %q lacks %q", txt, want)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, ReportJSONFile+".tmp")); !os.IsNotExist(err) {
		t.Fatalf("temporary file left behind: %v", err)
	}
}
