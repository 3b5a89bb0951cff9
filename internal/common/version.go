package common

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"

	toml "github.com/pelletier/go-toml/v2"
)

// Set at link time, e.g. -ldflags "-X .../internal/common.Version=1.4.0".
var (
	Version   = "dev"
	Build     = "unknown"
	GitCommit = "unknown"
)

// VersionFileName is the optional release stamp read from the binary's directory.
const VersionFileName = ".version"

// BuildInfo identifies the running FinTrack binary. It is the body of GET /api/version.
type BuildInfo struct {
	Version   string `json:"version" toml:"version"`
	Build     string `json:"build" toml:"build"`
	Commit    string `json:"commit" toml:"commit"`
	GoVersion string `json:"goVersion" toml:"-"`
}

// String renders "1.4.0 (build: ..., commit: ...)".
func (b BuildInfo) String() string {
	return fmt.Sprintf("%s (build: %s, commit: %s)", b.Version, b.Build, b.Commit)
}

// CurrentBuild reports the link-time stamp. A commit or build left unset falls back
// to the VCS revision and time the Go toolchain embedded in the binary.
func CurrentBuild() BuildInfo {
	info := BuildInfo{Version: Version, Build: Build, Commit: GitCommit, GoVersion: runtime.Version()}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "unknown" && s.Value != "" {
				info.Commit = shortRevision(s.Value)
			}
		case "vcs.time":
			if info.Build == "unknown" && s.Value != "" {
				info.Build = s.Value
			}
		}
	}
	return info
}

func shortRevision(rev string) string {
	if len(rev) > 8 {
		return rev[:8]
	}
	return rev
}

// LoadVersionFile reads a TOML release stamp (version, build, commit) from dir and
// fills only the fields still at their link-time defaults. A missing file is not an error.
func LoadVersionFile(dir string) error {
	data, err := os.ReadFile(filepath.Join(dir, VersionFileName))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", VersionFileName, err)
	}

	var stamp BuildInfo
	if err := toml.Unmarshal(data, &stamp); err != nil {
		return fmt.Errorf("parse %s: %w", VersionFileName, err)
	}
	if Version == "dev" && stamp.Version != "" {
		Version = stamp.Version
	}
	if Build == "unknown" && stamp.Build != "" {
		Build = stamp.Build
	}
	if GitCommit == "unknown" && stamp.Commit != "" {
		GitCommit = stamp.Commit
	}
	return nil
}
