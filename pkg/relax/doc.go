// Package relax turns concrete package versions into pinning expressions.
//
// A manifest entry can pin a package exactly ("numpy=1.26.4"), to a minor series
// ("numpy=1.26.*"), to a major series ("numpy=1.*"), or not at all ("numpy").
// The strictness is a [Level]:
//
//	relax.None   // no constraint
//	relax.Major  // {op}{major}.*
//	relax.Minor  // {op}{major}.{minor}.*
//	relax.Full   // {op}{version}
//
// Levels are a closed set. Each level is its own unexported type implementing
// the Level interface, so a new level does not compile until it knows how to
// render a pin.
//
// # Usage
//
//	pin, err := relax.Relax("3.11.4", "=", relax.Minor) // "=3.11.*"
//	pin, err := relax.Relax("2.31.0", "==", relax.Full) // "==2.31.0"
//	pin, err := relax.Relax("", "=", relax.Full)        // ""
//
// Versions are parsed with golang.org/x/mod/semver, which accepts the
// abbreviated forms "1" and "1.2" in addition to full semantic versions.
// Versions that do not parse (for example "2024.01.05" or "1.2.3.4") fail with
// an error carrying [errors.ErrCodeParseVersion] at the Minor and Major levels;
// Full and None never parse the version.
package relax
