// Package errors provides structured error types for conda-pip-minimal.
//
// Every failure the minimal-set computation can produce carries a machine-readable
// [Code] so the CLI (and tests) can tell a tool that is too old apart from a tool
// that crashed, or a bad environment apart from a bad --include.
//
// # Error Codes
//
//   - TOOL_VERSION: an external tool reports a version below the supported floor,
//     or its version string cannot be parsed
//   - TOOL_INVOCATION: an external tool exited non-zero or printed unparseable output
//   - INVALID_ENVIRONMENT: the package inventory for the environment could not be read
//   - UNKNOWN_INCLUDE: a force-included package is not installed at all
//   - PARSE_VERSION: a package version is not a semantic version
//
// # Usage
//
//	err := errors.Wrap(errors.ErrCodeInvalidEnvironment, cause, "invalid conda environment %s", env)
//	if errors.Is(err, errors.ErrCodeInvalidEnvironment) {
//	    // Handle missing environment
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"

	// External tool errors
	ErrCodeToolVersion    Code = "TOOL_VERSION"
	ErrCodeToolInvocation Code = "TOOL_INVOCATION"

	// Environment errors
	ErrCodeInvalidEnvironment Code = "INVALID_ENVIRONMENT"
	ErrCodeUnknownInclude     Code = "UNKNOWN_INCLUDE"

	// Version errors
	ErrCodeParseVersion Code = "PARSE_VERSION"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It walks the whole chain, so an INVALID_ENVIRONMENT wrapping a TOOL_INVOCATION
// matches both codes.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s", e.Message, UserMessage(e.Cause))
		}
		return e.Message
	}
	return err.Error()
}
