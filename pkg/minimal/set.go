package minimal

import (
	"slices"

	"github.com/matzehuels/conda-pip-minimal/pkg/env"
	"github.com/matzehuels/conda-pip-minimal/pkg/inventory"
)

// MinimalSet is the result of a computation. It is immutable; accessors
// return copies.
type MinimalSet struct {
	env   env.Spec
	conda []inventory.PackageRecord
	pip   []inventory.PackageRecord
}

// NewMinimalSet builds a set from explicit package lists.
func NewMinimalSet(e env.Spec, conda, pip []inventory.PackageRecord) *MinimalSet {
	return &MinimalSet{env: e, conda: slices.Clone(conda), pip: slices.Clone(pip)}
}

// Env returns the environment the set was computed for.
func (m *MinimalSet) Env() env.Spec { return m.env }

// Conda returns the native packages in no particular order.
func (m *MinimalSet) Conda() []inventory.PackageRecord { return slices.Clone(m.conda) }

// Pip returns the pip packages in no particular order.
func (m *MinimalSet) Pip() []inventory.PackageRecord { return slices.Clone(m.pip) }

// Len returns the total number of packages.
func (m *MinimalSet) Len() int { return len(m.conda) + len(m.pip) }
