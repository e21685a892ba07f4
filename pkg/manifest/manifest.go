// Package manifest renders a minimal set as a conda environment file.
//
// The document has the shape conda env create expects:
//
//	name: demo
//	dependencies:
//	  - python=3.11.*
//	  - pip=23.0.*
//	  - pip:
//	      - requests==2.31.*
//
// Entries are sorted so repeated exports diff cleanly: python first, pip
// second, everything else by name.
package manifest

import (
	"sort"

	"github.com/matzehuels/conda-pip-minimal/pkg/inventory"
	"github.com/matzehuels/conda-pip-minimal/pkg/minimal"
	"github.com/matzehuels/conda-pip-minimal/pkg/relax"
)

// Options control how entries are rendered.
type Options struct {
	Relax         relax.Level // Version pinning; nil means relax.Full
	IncludeOrigin bool        // Prefix native entries with "channel::"
	Name          string      // Overrides the environment's export name
}

// Document is a rendered environment file.
type Document struct {
	Name  string
	Conda []string // Native entries, in output order
	Pip   []string // pip entries, in output order; omitted when empty
}

// Dependencies returns the "dependencies" list as it is serialized: native
// entries followed by a {"pip": [...]} mapping when there are pip entries.
func (d *Document) Dependencies() []any {
	deps := make([]any, 0, len(d.Conda)+1)
	for _, c := range d.Conda {
		deps = append(deps, c)
	}
	if len(d.Pip) > 0 {
		deps = append(deps, map[string][]string{"pip": append([]string(nil), d.Pip...)})
	}
	return deps
}

// sortPriority ranks names that always lead the list.
var sortPriority = map[string]int{"python": 0, "pip": 1}

// Sort orders records in place: python, then pip, then by name.
func Sort(recs []inventory.PackageRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		pi, iok := sortPriority[recs[i].Name]
		pj, jok := sortPriority[recs[j].Name]
		switch {
		case iok && jok:
			return pi < pj
		case iok != jok:
			return iok
		}
		return recs[i].Name < recs[j].Name
	})
}

// Export renders ms. It fails only when a version cannot be relaxed.
func Export(ms *minimal.MinimalSet, opts Options) (*Document, error) {
	level := opts.Relax
	if level == nil {
		level = relax.Full
	}

	doc := &Document{Name: opts.Name}
	if doc.Name == "" {
		doc.Name = ms.Env().ExportName()
	}

	conda := ms.Conda()
	Sort(conda)
	for _, p := range conda {
		entry, err := CondaEntry(p, level, opts.IncludeOrigin)
		if err != nil {
			return nil, err
		}
		doc.Conda = append(doc.Conda, entry)
	}

	pip := ms.Pip()
	Sort(pip)
	for _, p := range pip {
		entry, err := PipEntry(p, level)
		if err != nil {
			return nil, err
		}
		doc.Pip = append(doc.Pip, entry)
	}
	return doc, nil
}

// CondaEntry renders a native package as "[channel::]name[=version]".
func CondaEntry(p inventory.PackageRecord, level relax.Level, includeOrigin bool) (string, error) {
	pin, err := relax.Relax(p.Version, "=", level)
	if err != nil {
		return "", err
	}
	prefix := ""
	if includeOrigin && p.Origin != "" {
		prefix = p.Origin + "::"
	}
	return prefix + p.Name + pin, nil
}

// PipEntry renders a pip package as "name[==version]".
func PipEntry(p inventory.PackageRecord, level relax.Level) (string, error) {
	pin, err := relax.Relax(p.Version, "==", level)
	if err != nil {
		return "", err
	}
	return p.Name + pin, nil
}
