// Package version exposes build information and version comparison
// helpers.
package version

import (
	"fmt"
	"runtime"
	"strings"
)

// Build information, overridden at link time via -ldflags.
//
//nolint:gochecknoglobals // set by the build
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// Info is a snapshot of the running build.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the current build information.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String renders the build info on one line.
func (i Info) String() string {
	return fmt.Sprintf("warden %s (commit %s, built %s, %s, %s)",
		i.Version, i.Commit, i.BuildDate, i.GoVersion, i.Platform)
}

// Compare returns 1, 0, or -1 as a is newer than, equal to, or older
// than b. Development builds ("dev", empty, or a commit hash) sort
// below any release.
func Compare(a, b string) int {
	a = strings.TrimPrefix(strings.TrimSpace(a), "v")
	b = strings.TrimPrefix(strings.TrimSpace(b), "v")

	aDev := a == "dev" || a == "" || isCommitHash(a)
	bDev := b == "dev" || b == "" || isCommitHash(b)
	switch {
	case aDev && bDev:
		return 0
	case aDev:
		return -1
	case bDev:
		return 1
	}

	ap := parseParts(a)
	bp := parseParts(b)
	for i := 0; i < 3; i++ {
		av, bv := 0, 0
		if i < len(ap) {
			av = ap[i]
		}
		if i < len(bp) {
			bv = bp[i]
		}
		if av != bv {
			if av > bv {
				return 1
			}
			return -1
		}
	}
	return 0
}

// IsNewer reports whether latest is newer than current.
func IsNewer(current, latest string) bool {
	return Compare(latest, current) > 0
}

// parseParts extracts major.minor.patch integers, dropping any
// pre-release or build metadata suffix.
func parseParts(version string) []int {
	if idx := strings.IndexAny(version, "-+"); idx != -1 {
		version = version[:idx]
	}

	parts := strings.Split(version, ".")
	result := make([]int, 0, len(parts))
	for _, part := range parts {
		var num int
		if _, err := fmt.Sscanf(part, "%d", &num); err == nil {
			result = append(result, num)
		}
	}
	return result
}

// isCommitHash reports whether s looks like a git commit hash: 7-40 hex
// characters with at least one letter.
func isCommitHash(s string) bool {
	s = strings.TrimSuffix(s, "-dirty")
	if len(s) < 7 || len(s) > 40 {
		return false
	}

	hasLetter := false
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
			hasLetter = true
		default:
			return false
		}
	}
	return hasLetter
}
