// Package minimal computes the smallest set of packages that reproduces a
// conda environment.
//
// # Overview
//
// Most packages in an environment are installed because something else needs
// them. Only the leaves, packages nothing else depends on, have to be named
// in a manifest; conda and pip pull in the rest. An environment mixing conda
// and pip has two independent dependency graphs, so leaves are detected per
// ecosystem and then merged:
//
//   - Native (conda) leaves come from conda-tree.
//   - pip leaves come from pipdeptree, which reports every Python distribution
//     including those conda installed. Only names the inventory attributes to
//     the "pypi" channel are kept.
//   - Force-included names are placed by their inventory origin; force-excluded
//     names are dropped from both sides.
//
// A name never appears in both lists. When both ecosystems claim it, the
// native side wins.
//
// # Pure and effectful parts
//
// [Combine] is a pure function of the inventory snapshot and the two leaf sets.
// [Computer] gathers those inputs: the inventory first (a failure there is an
// [errors.ErrCodeInvalidEnvironment] error and nothing else runs), then both
// leaf sets concurrently with [capture.Go].
package minimal
