package version

import "fmt"

// Version is set at build time:
// go build -ldflags "-X git.home.luguber.info/inful/blogbuilder/internal/version.Version=v0.3.0".
var Version = "unknown"

// Build metadata, also injected through ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version.
func String() string {
	if GitCommit == "unknown" || GitCommit == "" {
		return fmt.Sprintf("blogbuilder %s", Version)
	}
	commit := GitCommit
	if len(commit) > 8 {
		commit = commit[:8]
	}
	return fmt.Sprintf("blogbuilder %s (%s, built %s)", Version, commit, BuildTime)
}
