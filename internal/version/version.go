// Package version provides build-time version information.
// Values are injected at build time using ldflags.
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is injected via: -ldflags "-X github.com/6gh/hyprpaper-we/internal/version.Version=x.y.z".
	Version = "dev"

	// Commit is injected via: -ldflags "-X github.com/6gh/hyprpaper-we/internal/version.Commit=$(git rev-parse HEAD)".
	Commit = "unknown"

	// Date is injected via: -ldflags "-X github.com/6gh/hyprpaper-we/internal/version.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)".
	Date = "unknown"
)

// String returns a human-readable version string for the named binary.
func String(binary string) string {
	platform := fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
	if Commit != "unknown" && Date != "unknown" {
		commit := Commit
		if len(commit) > 8 {
			commit = commit[:8]
		}
		return fmt.Sprintf("%s version %s (commit: %s, built: %s, %s, %s)",
			binary, Version, commit, Date, runtime.Version(), platform)
	}
	return fmt.Sprintf("%s version %s (%s, %s)", binary, Version, runtime.Version(), platform)
}
