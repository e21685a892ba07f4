package tool

import (
	"regexp"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/matzehuels/conda-pip-minimal/pkg/errors"
)

// Minimum versions whose structured output formats are understood.
const (
	MinCondaTree  = "1.0.4"
	MinPipdeptree = "2.3.1"
)

// semverPattern is the semver.org reference expression without anchors, so it
// finds a version inside free text such as "conda-tree 1.1.0".
var semverPattern = regexp.MustCompile(`(?:0|[1-9]\d*)\.(?:0|[1-9]\d*)\.(?:0|[1-9]\d*)` +
	`(?:-(?:(?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*)(?:\.(?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*))*))?` +
	`(?:\+[0-9a-zA-Z-]+(?:\.[0-9a-zA-Z-]+)*)?`)

// ExtractSemver returns the first semantic version embedded in s.
func ExtractSemver(s string) (string, error) {
	v := semverPattern.FindString(s)
	if v == "" {
		return "", errors.New(errors.ErrCodeToolVersion, "no semantic version in %q", strings.TrimSpace(s))
	}
	return v, nil
}

// AtLeast reports whether version >= min under semantic version ordering.
// Both arguments are plain versions without a "v" prefix.
func AtLeast(version, min string) bool {
	return semver.Compare("v"+version, "v"+min) >= 0
}

// Requirement is a version floor for one program.
type Requirement struct {
	Name        string   // Display name ("conda-tree")
	Cmd         Cmd      // Program to probe
	VersionArgs []string // Arguments that print the version
	Min         string   // Minimum acceptable version
}

// CondaTreeRequirement returns the conda-tree requirement for this set.
func (s Set) CondaTreeRequirement() Requirement {
	return Requirement{Name: "conda-tree", Cmd: s.CondaTree, VersionArgs: []string{"--version"}, Min: MinCondaTree}
}

// PipdeptreeRequirement returns the pipdeptree requirement for this set.
func (s Set) PipdeptreeRequirement() Requirement {
	return Requirement{Name: "pipdeptree", Cmd: s.Pipdeptree, VersionArgs: []string{"--version"}, Min: MinPipdeptree}
}

// Requirements lists every requirement in the set.
func (s Set) Requirements() []Requirement {
	return []Requirement{s.CondaTreeRequirement(), s.PipdeptreeRequirement()}
}
