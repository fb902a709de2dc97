package version

import (
	"strings"
	"testing"
)

func TestVersionDefaults(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if BuildTime == "" || GitCommit == "" {
		t.Error("build metadata should be initialized")
	}
}

func TestString(t *testing.T) {
	oldVersion, oldCommit, oldTime := Version, GitCommit, BuildTime
	t.Cleanup(func() { Version, GitCommit, BuildTime = oldVersion, oldCommit, oldTime })

	Version, GitCommit = "v1.2.3", "unknown"
	if got := String(); got != "blogbuilder v1.2.3" {
		t.Fatalf("unexpected version line %q", got)
	}

	GitCommit, BuildTime = "0123456789abcdef", "2026-01-02"
	got := String()
	if !strings.Contains(got, "01234567") || strings.Contains(got, "89abcdef") {
		t.Fatalf("commit should be shortened, got %q", got)
	}
	if !strings.Contains(got, "2026-01-02") {
		t.Fatalf("build time missing from %q", got)
	}
}
