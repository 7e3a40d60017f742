// Package version holds the kac build information, set via ldflags:
//
//	go build -ldflags "-X github.com/kac-dev/kac/internal/version.Version=1.0.0"
package version

import (
	"fmt"
	"runtime"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// IsDevBuild returns true if running a development build (not a release).
func IsDevBuild() bool {
	return Version == "dev"
}

// String returns the one-line description printed by "kac version".
func String() string {
	return fmt.Sprintf("kac %s (commit %s, built %s, %s %s/%s)",
		Version, Commit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
