// Package env identifies the conda environment to inspect.
//
// An environment is addressed either by name (conda's --name) or by directory
// (conda's --prefix), never both. When neither is given the active environment
// reported by "conda info" is used.
package env

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/matzehuels/conda-pip-minimal/pkg/errors"
	"github.com/matzehuels/conda-pip-minimal/pkg/tool"
)

// Spec identifies one conda environment.
type Spec struct {
	Name     string // Environment name, or its directory when IsPrefix
	IsPrefix bool
}

// Named returns a spec for a named environment.
func Named(name string) Spec { return Spec{Name: name} }

// AtPrefix returns a spec for the environment installed at dir.
func AtPrefix(dir string) Spec { return Spec{Name: dir, IsPrefix: true} }

// Resolve builds a spec from the --name and --prefix flag values. Setting
// both is an error. Setting neither returns ok=false, meaning the active
// environment should be discovered with [Current].
func Resolve(name, prefix string) (spec Spec, ok bool, err error) {
	switch {
	case name != "" && prefix != "":
		return Spec{}, false, errors.New(errors.ErrCodeInvalidInput, "--name and --prefix are mutually exclusive")
	case name != "":
		if err := errors.ValidateEnvName(name); err != nil {
			return Spec{}, false, err
		}
		return Named(name), true, nil
	case prefix != "":
		if err := errors.ValidatePrefix(prefix); err != nil {
			return Spec{}, false, err
		}
		return AtPrefix(prefix), true, nil
	}
	return Spec{}, false, nil
}

// Args returns the conda arguments selecting this environment.
func (s Spec) Args() []string {
	if s.IsPrefix {
		return []string{"--prefix", s.Name}
	}
	return []string{"--name", s.Name}
}

// String returns the arguments as one string, for logs.
func (s Spec) String() string {
	return strings.Join(s.Args(), " ")
}

// ExportName is the name written into the manifest. For a prefix it is the
// last path element that does not start with a dot, so "/work/proj/.venv"
// exports as "proj".
func (s Spec) ExportName() string {
	if !s.IsPrefix {
		return s.Name
	}
	parts := strings.Split(filepath.ToSlash(filepath.Clean(s.Name)), "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if p := parts[i]; p != "" && !strings.HasPrefix(p, ".") {
			return p
		}
	}
	return ""
}

// Prefix returns the environment's directory. Named environments are looked
// up with "conda env export".
func (s Spec) Prefix(ctx context.Context, r tool.Runner, conda tool.Cmd) (string, error) {
	if s.IsPrefix {
		return s.Name, nil
	}

	var export struct {
		Prefix string `json:"prefix"`
	}
	args := append([]string{"env", "export"}, s.Args()...)
	args = append(args, "--no-builds", "--json")
	if err := conda.JSON(ctx, r, &export, args...); err != nil {
		return "", err
	}
	if export.Prefix == "" {
		return "", errors.New(errors.ErrCodeToolInvocation, "conda env export reported no prefix for %s", s)
	}
	return export.Prefix, nil
}

// Python returns the path of the environment's interpreter.
func (s Spec) Python(ctx context.Context, r tool.Runner, conda tool.Cmd) (string, error) {
	prefix, err := s.Prefix(ctx, r, conda)
	if err != nil {
		return "", err
	}
	return filepath.Join(prefix, "bin", "python"), nil
}

// Current returns the active environment according to "conda info". conda
// reports an environment outside its envs directories with a name equal to
// its prefix; such environments are addressed by prefix.
func Current(ctx context.Context, r tool.Runner, conda tool.Cmd) (Spec, error) {
	var info struct {
		ActivePrefix     *string `json:"active_prefix"`
		ActivePrefixName string  `json:"active_prefix_name"`
	}
	if err := conda.JSON(ctx, r, &info, "info", "--json"); err != nil {
		return Spec{}, err
	}
	if info.ActivePrefix == nil || *info.ActivePrefix == "" {
		return Spec{}, errors.New(errors.ErrCodeInvalidInput, "no active conda environment found (use --name or --prefix)")
	}
	if info.ActivePrefixName == *info.ActivePrefix {
		return AtPrefix(*info.ActivePrefix), nil
	}
	return Named(info.ActivePrefixName), nil
}
