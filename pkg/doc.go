// Package pkg provides the core libraries for conda-pip-minimal.
//
// # Overview
//
// conda-pip-minimal exports a conda environment as an environment file that
// lists only its leaves: packages no other installed package depends on.
// Recreating the environment from that file pulls everything else back in as
// a dependency, so the file stays short and portable across platforms.
//
// # Architecture
//
// The typical data flow:
//
//	conda list --json
//	         ↓
//	    [inventory] package (immutable package snapshot)
//	         ↓
//	    [leaves] package (conda-tree and pipdeptree, run concurrently via [capture])
//	         ↓
//	    [minimal] package (combine leaves with include/exclude)
//	         ↓
//	    [manifest] package (sort, relax versions, encode)
//	         ↓
//	    YAML/JSON environment file
//
// # Quick Start
//
//	import (
//	    "context"
//	    "os"
//
//	    "github.com/matzehuels/conda-pip-minimal/pkg/env"
//	    "github.com/matzehuels/conda-pip-minimal/pkg/pipeline"
//	    "github.com/matzehuels/conda-pip-minimal/pkg/tool"
//	)
//
//	runner := pipeline.NewRunner(tool.NewExecRunner(), tool.DefaultSet(), nil, nil, nil)
//	result, err := runner.Execute(context.Background(), pipeline.Options{
//	    Env:   env.Named("datasci"),
//	    Pip:   true,
//	    Relax: "minor",
//	})
//	if err != nil {
//	    return err
//	}
//	os.Stdout.Write(result.Output)
//
// # Main Packages
//
// Domain logic:
//   - [relax]: Version pinning levels (none, major, minor, full)
//   - [inventory]: Installed package records with name normalization
//   - [leaves]: Conda and pip leaf discovery
//   - [minimal]: The minimal-set computation
//   - [manifest]: Environment file export and encoding
//   - [dag]: Directed graph used to find pip roots
//
// Infrastructure:
//   - [tool]: External process execution and version floors
//   - [env]: Environment selection and discovery
//   - [capture]: Futures over errgroup for concurrent tool calls
//   - [cache]: File and Redis caches for tool version probes
//   - [observability]: Hooks for logging and metrics
//   - [errors]: Coded errors
//
// Orchestration:
//   - [pipeline]: compute → export → encode
//
// [relax]: https://pkg.go.dev/github.com/matzehuels/conda-pip-minimal/pkg/relax
// [inventory]: https://pkg.go.dev/github.com/matzehuels/conda-pip-minimal/pkg/inventory
// [leaves]: https://pkg.go.dev/github.com/matzehuels/conda-pip-minimal/pkg/leaves
// [minimal]: https://pkg.go.dev/github.com/matzehuels/conda-pip-minimal/pkg/minimal
// [manifest]: https://pkg.go.dev/github.com/matzehuels/conda-pip-minimal/pkg/manifest
// [dag]: https://pkg.go.dev/github.com/matzehuels/conda-pip-minimal/pkg/dag
// [tool]: https://pkg.go.dev/github.com/matzehuels/conda-pip-minimal/pkg/tool
// [env]: https://pkg.go.dev/github.com/matzehuels/conda-pip-minimal/pkg/env
// [capture]: https://pkg.go.dev/github.com/matzehuels/conda-pip-minimal/pkg/capture
// [cache]: https://pkg.go.dev/github.com/matzehuels/conda-pip-minimal/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/conda-pip-minimal/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/conda-pip-minimal/pkg/errors
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/conda-pip-minimal/pkg/pipeline
package pkg
