// Package tool runs the external programs conda-pip-minimal depends on.
//
// Three programs are involved: conda itself (inventory, environment info),
// conda-tree (invoked as "conda tree", native leaves) and pipdeptree (pip
// leaves). Their structured output formats changed over time, so conda-tree
// and pipdeptree are only trusted above a minimum version. [Prober.Ensure]
// enforces that floor before any leaf listing runs.
//
// # Errors
//
// A process that cannot be started, exits non-zero, or prints output that does
// not parse fails with [errors.ErrCodeToolInvocation]. A version probe that
// fails, prints no semantic version, or reports a version below the floor fails
// with [errors.ErrCodeToolVersion] (wrapping the invocation error, if any).
//
// # Testing
//
// Everything takes a [Runner]. Tests substitute canned output with
// [github.com/matzehuels/conda-pip-minimal/pkg/tool/tooltest.Fake].
package tool
