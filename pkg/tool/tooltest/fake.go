// Package tooltest provides a scripted tool.Runner for tests.
package tooltest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/matzehuels/conda-pip-minimal/pkg/errors"
)

// Response is the canned result of one command line.
type Response struct {
	Out string
	Err error
	// Wait, if non-nil, blocks the call until it is closed or ctx is done.
	Wait <-chan struct{}
}

// Fake answers commands from a table keyed by the full command line
// ("conda list --name base --json"). Unknown commands fail with a
// TOOL_INVOCATION error, like a missing executable. Fake is safe for
// concurrent use.
type Fake struct {
	mu        sync.Mutex
	responses map[string]Response
	calls     []string
}

// NewFake creates an empty fake.
func NewFake() *Fake {
	return &Fake{responses: make(map[string]Response)}
}

// On registers output for a command line and returns f for chaining.
func (f *Fake) On(cmdline, out string) *Fake {
	return f.Respond(cmdline, Response{Out: out})
}

// Fail registers a failure for a command line.
func (f *Fake) Fail(cmdline string, err error) *Fake {
	return f.Respond(cmdline, Response{Err: err})
}

// Respond registers a full response for a command line.
func (f *Fake) Respond(cmdline string, r Response) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[cmdline] = r
	return f
}

// Run implements tool.Runner.
func (f *Fake) Run(ctx context.Context, binary string, args ...string) ([]byte, error) {
	cmdline := strings.Join(append([]string{binary}, args...), " ")

	f.mu.Lock()
	f.calls = append(f.calls, cmdline)
	r, ok := f.responses[cmdline]
	f.mu.Unlock()

	if !ok {
		return nil, errors.New(errors.ErrCodeToolInvocation, "could not run %s: no scripted response", cmdline)
	}
	if r.Wait != nil {
		select {
		case <-r.Wait:
		case <-ctx.Done():
			return nil, fmt.Errorf("%s: %w", cmdline, ctx.Err())
		}
	}
	if r.Err != nil {
		return nil, r.Err
	}
	return []byte(r.Out), nil
}

// Calls returns every command line run so far, in call order.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Called reports whether cmdline was run.
func (f *Fake) Called(cmdline string) bool {
	for _, c := range f.Calls() {
		if c == cmdline {
			return true
		}
	}
	return false
}
