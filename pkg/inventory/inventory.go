// Package inventory holds the installed-package snapshot of a conda environment.
package inventory

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/matzehuels/conda-pip-minimal/pkg/env"
	"github.com/matzehuels/conda-pip-minimal/pkg/errors"
	"github.com/matzehuels/conda-pip-minimal/pkg/tool"
)

// OriginPyPI is the channel conda reports for packages installed with pip.
const OriginPyPI = "pypi"

// PackageRecord is one installed package. Empty Version or Origin mean unknown.
type PackageRecord struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	Origin  string `json:"channel,omitempty"`
}

// IsPip reports whether the package was installed with pip.
func (p PackageRecord) IsPip() bool { return p.Origin == OriginPyPI }

// Inventory is an immutable snapshot of installed packages keyed by name.
// The zero value is an empty inventory.
type Inventory struct {
	pkgs       map[string]PackageRecord
	normalized map[string]string // normalized name -> name
}

// New builds an inventory from records. A later record replaces an earlier
// one with the same name.
func New(records ...PackageRecord) *Inventory {
	inv := &Inventory{
		pkgs:       make(map[string]PackageRecord, len(records)),
		normalized: make(map[string]string, len(records)),
	}
	for _, r := range records {
		inv.pkgs[r.Name] = r
		inv.normalized[Normalize(r.Name)] = r.Name
	}
	return inv
}

var separatorRun = regexp.MustCompile(`[-_.]+`)

// Normalize returns the canonical form of a Python distribution name:
// lower case, with runs of '-', '_' and '.' collapsed to '-'.
// pipdeptree and conda do not always agree on spelling ("PyYAML" vs "pyyaml").
func Normalize(name string) string {
	return separatorRun.ReplaceAllString(strings.ToLower(name), "-")
}

// Lookup returns the record for name. An exact match is preferred; otherwise
// names are compared in [Normalize]d form. The returned record carries the
// inventory's spelling of the name.
func (inv *Inventory) Lookup(name string) (PackageRecord, bool) {
	if inv == nil {
		return PackageRecord{}, false
	}
	if p, ok := inv.pkgs[name]; ok {
		return p, true
	}
	if alias, ok := inv.normalized[Normalize(name)]; ok {
		return inv.pkgs[alias], true
	}
	return PackageRecord{}, false
}

// Has reports whether name is installed.
func (inv *Inventory) Has(name string) bool {
	_, ok := inv.Lookup(name)
	return ok
}

// Len returns the number of installed packages.
func (inv *Inventory) Len() int {
	if inv == nil {
		return 0
	}
	return len(inv.pkgs)
}

// Records returns all records sorted by name.
func (inv *Inventory) Records() []PackageRecord {
	if inv == nil {
		return nil
	}
	out := make([]PackageRecord, 0, len(inv.pkgs))
	for _, p := range inv.pkgs {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Fetch runs "conda list --json" for e. Any failure, including a missing
// environment, is an errors.ErrCodeInvalidEnvironment error wrapping the cause.
func Fetch(ctx context.Context, r tool.Runner, conda tool.Cmd, e env.Spec) (*Inventory, error) {
	var records []PackageRecord
	args := append([]string{"list"}, e.Args()...)
	args = append(args, "--json")
	if err := conda.JSON(ctx, r, &records, args...); err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidEnvironment, err, "invalid conda environment %s", e)
	}
	for _, rec := range records {
		if rec.Name == "" {
			return nil, errors.New(errors.ErrCodeInvalidEnvironment, "conda list returned a package without a name for %s", e)
		}
	}
	return New(records...), nil
}
