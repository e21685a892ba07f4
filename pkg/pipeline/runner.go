package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/conda-pip-minimal/pkg/cache"
	"github.com/matzehuels/conda-pip-minimal/pkg/manifest"
	"github.com/matzehuels/conda-pip-minimal/pkg/minimal"
	"github.com/matzehuels/conda-pip-minimal/pkg/observability"
	"github.com/matzehuels/conda-pip-minimal/pkg/tool"
)

// Runner encapsulates pipeline execution.
//
// The Runner is stateless except for its collaborators - it doesn't store
// results. Multiple goroutines can safely use the same Runner.
type Runner struct {
	Exec   tool.Runner
	Tools  tool.Set
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// ProbeTTL overrides how long tool version probes stay cached.
	ProbeTTL time.Duration
}

// NewRunner creates a runner.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(exec tool.Runner, tools tool.Set, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Exec:   exec,
		Tools:  tools,
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Prober returns a version prober sharing the runner's cache.
func (r *Runner) Prober(logger *log.Logger) *tool.Prober {
	if logger == nil {
		logger = r.Logger
	}
	p := tool.NewProber(r.Exec, r.Cache, r.Keyer, logger)
	if r.ProbeTTL > 0 {
		p.TTL = r.ProbeTTL
	}
	return p
}

// Execute runs the complete compute → export → encode pipeline.
// Either a full result is returned or an error; there is no partial output.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{RunID: uuid.NewString()}
	logger := r.Logger.With("run", result.RunID[:8])

	// Stage 1: Compute
	computeStart := time.Now()
	hooks := observability.Pipeline()
	hooks.OnComputeStart(ctx, opts.Env.String())

	computer := minimal.NewComputer(r.Tools, r.Prober(logger), logger)
	ms, err := computer.Compute(ctx, opts.request())
	result.Stats.ComputeTime = time.Since(computeStart)
	if err != nil {
		hooks.OnComputeComplete(ctx, opts.Env.String(), 0, 0, result.Stats.ComputeTime, err)
		return nil, err
	}
	result.Set = ms
	result.Stats.CondaCount = len(ms.Conda())
	result.Stats.PipCount = len(ms.Pip())
	hooks.OnComputeComplete(ctx, ms.Env().String(), result.Stats.CondaCount, result.Stats.PipCount, result.Stats.ComputeTime, nil)

	logger.Info("computed minimal set",
		"env", ms.Env(),
		"conda", result.Stats.CondaCount,
		"pip", result.Stats.PipCount,
		"duration", result.Stats.ComputeTime)

	// Stage 2: Export
	exportStart := time.Now()
	doc, err := manifest.Export(ms, opts.exportOptions())
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	result.Document = doc

	// Stage 3: Encode
	out, err := doc.Encode(opts.format)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	result.Output = out
	result.Stats.ExportTime = time.Since(exportStart)

	logger.Info("exported manifest",
		"name", doc.Name,
		"relax", opts.Relax,
		"format", opts.Format,
		"duration", result.Stats.ExportTime)

	return result, nil
}

// CheckTools reports each external tool's version against its floor.
func (r *Runner) CheckTools(ctx context.Context) []tool.Status {
	return r.Prober(nil).Check(ctx, r.Tools.Requirements())
}
