// Package version holds build metadata injected with -ldflags -X.
package version

import "fmt"

// Build metadata. Overridden at link time.
var (
	Version   = "0.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// String formats the build metadata on one line.
func String() string {
	return fmt.Sprintf("userdesk %s (commit %s, built %s)", Version, GitCommit, BuildDate)
}
