package tool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	cpmerrors "github.com/matzehuels/conda-pip-minimal/pkg/errors"
	"github.com/matzehuels/conda-pip-minimal/pkg/observability"
)

// Runner runs a program to completion and returns its standard output.
// Implementations must be safe for concurrent use; the two leaf fetches call
// Run from separate goroutines.
type Runner interface {
	Run(ctx context.Context, binary string, args ...string) ([]byte, error)
}

// ExecRunner runs real processes with os/exec.
type ExecRunner struct {
	// Env, if non-nil, replaces the inherited environment.
	Env []string
}

// NewExecRunner creates a runner that inherits the current environment.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run starts binary with args and waits for it to exit. No timeout is applied;
// only ctx cancellation stops the process early.
func (r *ExecRunner) Run(ctx context.Context, binary string, args ...string) ([]byte, error) {
	observability.Tool().OnToolStart(ctx, binary, args)
	start := time.Now()

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Env = r.Env
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	observability.Tool().OnToolComplete(ctx, binary, args, time.Since(start), err)
	if err == nil {
		return stdout.Bytes(), nil
	}

	if ctx.Err() != nil {
		return nil, fmt.Errorf("%s: %w", commandLine(binary, args), ctx.Err())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil, cpmerrors.Wrap(cpmerrors.ErrCodeToolInvocation, err,
			"%s exited with status %d%s", commandLine(binary, args), exitErr.ExitCode(), stderrSuffix(stderr.String()))
	}
	return nil, cpmerrors.Wrap(cpmerrors.ErrCodeToolInvocation, err, "could not run %s", commandLine(binary, args))
}

var _ Runner = (*ExecRunner)(nil)

func commandLine(binary string, args []string) string {
	return strings.Join(append([]string{binary}, args...), " ")
}

// stderrSuffix returns the last non-empty line of a process's stderr, which is
// where conda and pipdeptree put their one-line failure reason.
func stderrSuffix(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return ": " + l
		}
	}
	return ""
}
