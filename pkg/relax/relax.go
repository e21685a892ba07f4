package relax

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/matzehuels/conda-pip-minimal/pkg/errors"
)

// Level is a version-pinning strictness. The only values are None, Major, Minor
// and Full.
type Level interface {
	// String returns the level's flag spelling ("none", "major", "minor", "full").
	String() string
	// Rank orders levels from least (None = 0) to most strict (Full = 3).
	Rank() int

	pin(version, op string) (string, error)
}

type (
	noneLevel  struct{}
	majorLevel struct{}
	minorLevel struct{}
	fullLevel  struct{}
)

// The four supported levels.
var (
	None  Level = noneLevel{}
	Major Level = majorLevel{}
	Minor Level = minorLevel{}
	Full  Level = fullLevel{}
)

// Levels lists every level in increasing strictness.
var Levels = []Level{None, Major, Minor, Full}

func (noneLevel) String() string  { return "none" }
func (majorLevel) String() string { return "major" }
func (minorLevel) String() string { return "minor" }
func (fullLevel) String() string  { return "full" }

func (noneLevel) Rank() int  { return 0 }
func (majorLevel) Rank() int { return 1 }
func (minorLevel) Rank() int { return 2 }
func (fullLevel) Rank() int  { return 3 }

func (noneLevel) pin(string, string) (string, error) { return "", nil }

func (fullLevel) pin(version, op string) (string, error) { return op + version, nil }

func (majorLevel) pin(version, op string) (string, error) {
	v, err := parse(version)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s.*", op, strings.TrimPrefix(semver.Major(v), "v")), nil
}

func (minorLevel) pin(version, op string) (string, error) {
	v, err := parse(version)
	if err != nil {
		return "", err
	}
	prefix := semver.MajorMinor(v)
	if releaseParts(version) < 2 {
		prefix = semver.Major(v)
	}
	return fmt.Sprintf("%s%s.*", op, strings.TrimPrefix(prefix, "v")), nil
}

// Relax renders version as a pin using op at the given level.
// An empty version means "unversioned" and always yields "".
// A nil level is treated as Full.
//
// Major and Minor accept the shorthand forms "7" and "23.0" but never add
// components the version lacks: Minor on "7" yields "7.*", like Major.
func Relax(version, op string, level Level) (string, error) {
	if version == "" {
		return "", nil
	}
	if level == nil {
		level = Full
	}
	return level.pin(version, op)
}

// ParseLevel returns the level with the given name (case-insensitive).
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	i := slices.IndexFunc(Levels, func(l Level) bool { return l.String() == name })
	if i < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown relax level %q (available: %s)", s, strings.Join(Names(), ", "))
	}
	return Levels[i], nil
}

// Names returns the names of all levels in increasing strictness.
func Names() []string {
	names := make([]string, len(Levels))
	for i, l := range Levels {
		names[i] = l.String()
	}
	return names
}

// releaseParts counts the dot-separated components of version's release
// segment. Shorthand forms never carry a prerelease or build suffix.
func releaseParts(version string) int {
	release, _, _ := strings.Cut(version, "-")
	release, _, _ = strings.Cut(release, "+")
	return strings.Count(release, ".") + 1
}

// parse normalizes version to the "v"-prefixed form expected by x/mod/semver.
func parse(version string) (string, error) {
	v := version
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", errors.New(errors.ErrCodeParseVersion, "%q is not a semantic version", version)
	}
	return v, nil
}
