package minimal

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/conda-pip-minimal/pkg/capture"
	"github.com/matzehuels/conda-pip-minimal/pkg/env"
	"github.com/matzehuels/conda-pip-minimal/pkg/inventory"
	"github.com/matzehuels/conda-pip-minimal/pkg/leaves"
	"github.com/matzehuels/conda-pip-minimal/pkg/tool"
)

// Request describes one computation.
type Request struct {
	Env     env.Spec // Zero value means the active environment
	Pip     bool     // Also detect pip leaves
	Include []string // Always listed when installed
	Exclude []string // Never listed
}

// Computer runs the external tools and combines their answers.
type Computer struct {
	Tools  tool.Set
	Prober *tool.Prober
	Logger *log.Logger
}

// NewComputer creates a computer. A nil logger uses log.Default().
func NewComputer(tools tool.Set, prober *tool.Prober, logger *log.Logger) *Computer {
	if logger == nil {
		logger = log.Default()
	}
	return &Computer{Tools: tools, Prober: prober, Logger: logger}
}

func (c *Computer) runner() tool.Runner { return c.Prober.Runner }

// ResolveEnv returns req.Env, or the active environment if it is unset.
func (c *Computer) ResolveEnv(ctx context.Context, e env.Spec) (env.Spec, error) {
	if e.Name != "" {
		return e, nil
	}
	cur, err := env.Current(ctx, c.runner(), c.Tools.Conda)
	if err != nil {
		return env.Spec{}, err
	}
	c.Logger.Debug("using active environment", "env", cur)
	return cur, nil
}

// Compute returns the minimal set for req.
//
// The inventory is fetched first; if that fails nothing else runs. The two
// leaf listings then run concurrently. If one fails the other still runs to
// completion, and Compute returns the first error observed.
func (c *Computer) Compute(ctx context.Context, req Request) (*MinimalSet, error) {
	e, err := c.ResolveEnv(ctx, req.Env)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	inv, err := inventory.Fetch(ctx, c.runner(), c.Tools.Conda, e)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("fetched inventory", "env", e, "packages", inv.Len(), "duration", time.Since(start))

	// Both fetches run to completion even when one fails.
	g := capture.NewGroup(ctx)
	defer func() { _ = g.Wait() }()

	condaFut := capture.Go(g, "conda leaves", func(ctx context.Context) (leaves.Set, error) {
		return leaves.Conda(ctx, c.Prober, c.Tools, e)
	})
	var pipFut *capture.Future[leaves.Set]
	if req.Pip {
		pipFut = capture.Go(g, "pip leaves", func(ctx context.Context) (leaves.Set, error) {
			python, err := e.Python(ctx, c.runner(), c.Tools.Conda)
			if err != nil {
				return nil, err
			}
			return leaves.Pip(ctx, c.Prober, c.Tools, python)
		})
	}

	condaLeaves, err := condaFut.Wait(ctx)
	if err != nil {
		return nil, err
	}
	var pipLeaves leaves.Set
	if pipFut != nil {
		if pipLeaves, err = pipFut.Wait(ctx); err != nil {
			return nil, err
		}
	}
	c.Logger.Debug("fetched leaves", "conda", condaLeaves.Len(), "pip", pipLeaves.Len(), "duration", time.Since(start))

	return Combine(e, inv, condaLeaves, pipLeaves, req.Include, req.Exclude)
}
