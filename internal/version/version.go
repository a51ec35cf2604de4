// Package version holds build information injected with -ldflags.
package version

import "fmt"

var (
	// Version is the release version.
	Version = "0.1.0-dev"
	// BuildTime is the UTC build timestamp.
	BuildTime = "unknown"
	// GitCommit is the short commit hash.
	GitCommit = "unknown"
)

// String returns a one-line version summary.
func String() string {
	return fmt.Sprintf("synthia %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
