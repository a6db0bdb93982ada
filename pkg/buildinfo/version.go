// Package buildinfo reports the itisgraph build version.
//
// Release builds set the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/itisgraph/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/itisgraph/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/itisgraph/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Binaries installed with "go install" carry no ldflags; their module version
// and VCS revision are read from the embedded build information instead.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	Version = "dev"     // semantic version
	Commit  = "none"    // git commit SHA
	Date    = "unknown" // build timestamp
)

func init() {
	if Version != "dev" {
		return
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		Version = v
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			Commit = s.Value
		case "vcs.time":
			Date = s.Value
		}
	}
}

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
