// Package leaves lists the top-level packages of an environment: packages
// that no other installed package depends on.
//
// Native leaves come from conda-tree ("conda tree leaves"), pip leaves from
// pipdeptree. Both tools are version-gated with [tool.Prober.Ensure] before
// their output is trusted.
package leaves

import (
	"sort"
)

// Set is a set of package names.
type Set map[string]struct{}

// NewSet returns a set holding names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set. A nil set is empty.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Add inserts name.
func (s Set) Add(name string) { s[name] = struct{}{} }

// Len returns the number of names.
func (s Set) Len() int { return len(s) }

// Sorted returns the names in lexicographic order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
