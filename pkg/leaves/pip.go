package leaves

import (
	"context"
	"errors"
	"fmt"

	"github.com/matzehuels/conda-pip-minimal/pkg/dag"
	cpmerrors "github.com/matzehuels/conda-pip-minimal/pkg/errors"
	"github.com/matzehuels/conda-pip-minimal/pkg/tool"
)

// PipPackage is one node of pipdeptree's --json-tree output.
type PipPackage struct {
	Key              string       `json:"key"`
	PackageName      string       `json:"package_name"`
	InstalledVersion string       `json:"installed_version"`
	RequiredVersion  string       `json:"required_version,omitempty"`
	Dependencies     []PipPackage `json:"dependencies"`
}

// Name returns the distribution name, falling back to the normalized key.
func (p PipPackage) Name() string {
	if p.PackageName != "" {
		return p.PackageName
	}
	return p.Key
}

// Pip returns the pip leaves of the interpreter at python. The tree pipdeptree
// prints is loaded with [Graph] and the leaves are its sources.
func Pip(ctx context.Context, p *tool.Prober, tools tool.Set, python string) (Set, error) {
	if _, err := p.Ensure(ctx, tools.PipdeptreeRequirement()); err != nil {
		return nil, err
	}

	var tree []PipPackage
	if err := tools.Pipdeptree.JSON(ctx, p.Runner, &tree, "--python", python, "--local-only", "--json-tree"); err != nil {
		return nil, err
	}

	g, err := Graph(tree)
	if err != nil {
		return nil, cpmerrors.Wrap(cpmerrors.ErrCodeToolInvocation, err, "unusable dependency tree from %s", tools.Pipdeptree)
	}
	if n := g.BreakCycles(); n > 0 {
		p.Logger.Debug("broke dependency cycles", "python", python, "edges", n)
	}

	s := make(Set)
	for _, n := range g.Sources() {
		s.Add(n.ID)
		p.Logger.Debug("pip leaf", "name", n.ID, "version", n.Meta["version"])
	}
	return s, nil
}

// Graph loads a pipdeptree forest into a dependency graph. Every package
// becomes one node carrying its installed version under "version"; repeated
// subtrees collapse into shared nodes.
func Graph(tree []PipPackage) (*dag.DAG, error) {
	g := dag.New()

	var visit func(pkg PipPackage) error
	visit = func(pkg PipPackage) error {
		name := pkg.Name()
		if name == "" {
			return errors.New("package without a name")
		}
		if _, ok := g.Node(name); !ok {
			if err := g.AddNode(dag.Node{ID: name, Meta: dag.Metadata{"version": pkg.InstalledVersion}}); err != nil {
				return err
			}
		}
		for _, dep := range pkg.Dependencies {
			if err := visit(dep); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			if err := g.AddEdge(dag.Edge{From: name, To: dep.Name()}); err != nil {
				return err
			}
		}
		return nil
	}

	for _, pkg := range tree {
		if err := visit(pkg); err != nil {
			return nil, err
		}
	}
	return g, nil
}
