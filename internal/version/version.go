package version

import (
	"fmt"
	"runtime"
	"time"
)

// These variables are set at build time via -ldflags
var (
	Version   = "dev"     // -X github.com/knottin/enquiry-api/internal/version.Version=v1.2.0
	BuildTime = "unknown" // -X github.com/knottin/enquiry-api/internal/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)
	GitCommit = "unknown" // -X github.com/knottin/enquiry-api/internal/version.GitCommit=$(git rev-parse HEAD)
)

// BuildInfo contains build information reported by /health and the CLI
type BuildInfo struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	GitCommit string `json:"git_commit"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetBuildInfo returns complete build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		BuildTime: BuildTime,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Info returns a formatted version string for CLI output
func Info() string {
	if BuildTime == "unknown" {
		return fmt.Sprintf("%s (development build)", Version)
	}

	buildTime, err := time.Parse(time.RFC3339, BuildTime)
	if err != nil {
		return fmt.Sprintf("%s (built %s)", Version, BuildTime)
	}

	return fmt.Sprintf("%s (built %s, commit %s)", Version, buildTime.UTC().Format("2006-01-02 15:04:05 UTC"), shortCommit(GitCommit))
}

func shortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
