package version

import (
	"fmt"
	"io"
	"runtime"
)

// Set via -ldflags "-X github.com/networkupstools/nut-hcl/internal/version.Version=v1.0.0"
var Version string

// Set via -ldflags "-X github.com/networkupstools/nut-hcl/internal/version.GitCommit=$(git rev-parse HEAD)"
var GitCommit string

// Set via -ldflags "-X github.com/networkupstools/nut-hcl/internal/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var BuildTime string

// Set via -ldflags "-X github.com/networkupstools/nut-hcl/internal/version.GitTag=$(git describe --tags --abbrev=0)"
var GitTag string

// GitState is "clean" or "dirty" depending on uncommitted changes at build time.
var GitState string

type Info struct {
	Version   string `json:"version" yaml:"version"`
	GitCommit string `json:"git_commit" yaml:"git_commit"`
	GitTag    string `json:"git_tag" yaml:"git_tag"`
	GitState  string `json:"git_state" yaml:"git_state"`
	BuildTime string `json:"build_time" yaml:"build_time"`
	GoVersion string `json:"go_version" yaml:"go_version"`
}

// Get collects the build information. Unset values are reported as "unknown"
// except the Go version, which is taken from the runtime.
func Get() Info {
	orUnknown := func(s string) string {
		if s == "" {
			return "unknown"
		}
		return s
	}
	return Info{
		Version:   orUnknown(Version),
		GitCommit: orUnknown(GitCommit),
		GitTag:    orUnknown(GitTag),
		GitState:  orUnknown(GitState),
		BuildTime: orUnknown(BuildTime),
		GoVersion: runtime.Version(),
	}
}

// PrintVersionInfo outputs all versioning information for troubleshooting or version checks.
func PrintVersionInfo(w io.Writer) {
	info := Get()
	fmt.Fprintf(w, "Version: %s\n", info.Version)
	fmt.Fprintf(w, "Git Commit: %s\n", info.GitCommit)
	fmt.Fprintf(w, "Git Tag: %s\n", info.GitTag)
	fmt.Fprintf(w, "Git State: %s\n", info.GitState)
	fmt.Fprintf(w, "Build Time: %s\n", info.BuildTime)
	fmt.Fprintf(w, "Go Version: %s\n", info.GoVersion)
}
