package version

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// set via ldflags
//
//nolint:gochecknoglobals // by design
var (
	Version   = "dev"
	BuildDate = ""
	GitCommit = ""
)

//nolint:gochecknoglobals // by design
var FullVersion = fmt.Sprintf("%s Build: %s Commit: %s", Version, BuildDate, GitCommit)

// Canonical returns the version in semver form ("v1.2.3") or "" if the
// build carries no release version.
func Canonical() string {
	v := Version
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return semver.Canonical(v)
}

// IsRelease reports whether the build is a tagged release without
// prerelease suffix.
func IsRelease() bool {
	c := Canonical()
	return c != "" && semver.Prerelease(c) == ""
}
