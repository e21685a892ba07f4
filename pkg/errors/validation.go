package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// packageNamePattern matches names accepted by both conda and pip: letters, digits,
// and the separators '.', '_' and '-', starting with a letter or digit.
var packageNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidatePackageName validates a package name passed through --include or --exclude.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters or whitespace
//   - No version specifiers or channel prefixes ("numpy=1.2", "conda-forge::numpy")
//   - Maximum length of 256 characters
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "package name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "package name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "package name %q contains whitespace or control characters", name)
		}
	}

	if strings.Contains(name, "::") {
		return New(ErrCodeInvalidInput, "package name %q must not carry a channel prefix", name)
	}

	if !packageNamePattern.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid package name %q (version specifiers are not allowed)", name)
	}

	return nil
}

// ValidatePackageNames validates every name and returns the first failure.
func ValidatePackageNames(names []string) error {
	for _, n := range names {
		if err := ValidatePackageName(n); err != nil {
			return err
		}
	}
	return nil
}

// ValidateEnvName validates a conda environment name given with --name.
// Conda rejects names containing path separators, spaces, '#', ':' and a few
// shell-hostile characters.
func ValidateEnvName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "environment name cannot be empty")
	}
	if strings.ContainsAny(name, "/\\ :#") {
		return New(ErrCodeInvalidInput, "invalid environment name %q (use --prefix for paths)", name)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "environment name contains invalid control characters")
		}
	}
	return nil
}

// ValidatePrefix validates an environment prefix path given with --prefix.
func ValidatePrefix(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "environment prefix cannot be empty")
	}
	if len(path) > 4096 {
		return New(ErrCodeInvalidInput, "environment prefix too long (max 4096 characters)")
	}
	if strings.ContainsRune(path, 0) {
		return New(ErrCodeInvalidInput, "environment prefix contains a null byte")
	}
	return nil
}
