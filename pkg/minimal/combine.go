package minimal

import (
	"github.com/matzehuels/conda-pip-minimal/pkg/env"
	"github.com/matzehuels/conda-pip-minimal/pkg/errors"
	"github.com/matzehuels/conda-pip-minimal/pkg/inventory"
	"github.com/matzehuels/conda-pip-minimal/pkg/leaves"
)

// Combine merges native and pip leaves with the include and exclude
// overrides. A nil pipLeaves means pip leaves were not requested; an empty
// non-nil set means there were none.
//
// Every include must be installed, otherwise Combine fails with
// errors.ErrCodeUnknownInclude. Excludes win over both leaves and includes,
// whichever way either side spells the package name.
func Combine(e env.Spec, inv *inventory.Inventory, condaLeaves, pipLeaves leaves.Set, include, exclude []string) (*MinimalSet, error) {
	for _, name := range include {
		if !inv.Has(name) {
			return nil, errors.New(errors.ErrCodeUnknownInclude, "cannot include %s: package is not installed in %s", name, e)
		}
	}
	excluded := leaves.NewSet(exclude...)
	for _, name := range exclude {
		if rec, ok := inv.Lookup(name); ok {
			excluded.Add(rec.Name)
		}
	}

	ms := &MinimalSet{env: e}
	placed := make(leaves.Set)

	for _, name := range condaLeaves.Sorted() {
		rec, ok := inv.Lookup(name)
		if !ok {
			rec = inventory.PackageRecord{Name: name}
		}
		if excluded.Has(name) || excluded.Has(rec.Name) {
			continue
		}
		ms.conda = append(ms.conda, rec)
		placed.Add(rec.Name)
	}

	if pipLeaves != nil {
		for _, name := range pipLeaves.Sorted() {
			rec, ok := inv.Lookup(name)
			if !ok || !rec.IsPip() {
				continue
			}
			if excluded.Has(name) || excluded.Has(rec.Name) || placed.Has(rec.Name) {
				continue
			}
			ms.pip = append(ms.pip, rec)
			placed.Add(rec.Name)
		}
	}

	for _, name := range include {
		rec, _ := inv.Lookup(name)
		if excluded.Has(name) || excluded.Has(rec.Name) || placed.Has(name) || placed.Has(rec.Name) {
			continue
		}
		if rec.IsPip() {
			ms.pip = append(ms.pip, rec)
		} else {
			ms.conda = append(ms.conda, rec)
		}
		placed.Add(rec.Name)
	}

	return ms, nil
}
