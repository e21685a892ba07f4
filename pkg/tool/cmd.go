package tool

import (
	"context"
	"encoding/json"
	"slices"
	"strings"

	"github.com/matzehuels/conda-pip-minimal/pkg/errors"
)

// Cmd is a program plus fixed leading arguments, e.g. {"conda", ["tree"]}.
type Cmd struct {
	Binary string
	Args   []string
}

// Argv returns the full argument list (without the binary) for extra args.
func (c Cmd) Argv(args ...string) []string {
	return append(slices.Clone(c.Args), args...)
}

// String returns the command as typed in a shell.
func (c Cmd) String() string {
	return commandLine(c.Binary, c.Args)
}

// Output runs the command and returns its trimmed standard output.
func (c Cmd) Output(ctx context.Context, r Runner, args ...string) (string, error) {
	out, err := r.Run(ctx, c.Binary, c.Argv(args...)...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// JSON runs the command and decodes its standard output into v.
func (c Cmd) JSON(ctx context.Context, r Runner, v any, args ...string) error {
	out, err := r.Run(ctx, c.Binary, c.Argv(args...)...)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(out, v); err != nil {
		return errors.Wrap(errors.ErrCodeToolInvocation, err, "unparseable JSON from %s", commandLine(c.Binary, c.Argv(args...)))
	}
	return nil
}

// Set names the programs used for one computation.
type Set struct {
	Conda      Cmd
	CondaTree  Cmd
	Pipdeptree Cmd
}

// DefaultSet resolves all programs from PATH.
func DefaultSet() Set {
	return NewSet("", "")
}

// NewSet builds a Set from explicit executables; empty strings select the
// defaults "conda" and "pipdeptree". conda-tree is always run through conda.
func NewSet(conda, pipdeptree string) Set {
	if conda == "" {
		conda = "conda"
	}
	if pipdeptree == "" {
		pipdeptree = "pipdeptree"
	}
	return Set{
		Conda:      Cmd{Binary: conda},
		CondaTree:  Cmd{Binary: conda, Args: []string{"tree"}},
		Pipdeptree: Cmd{Binary: pipdeptree},
	}
}
