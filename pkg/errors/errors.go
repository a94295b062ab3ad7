// Package errors provides structured error types for the stackbrew generator.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the library packages
//   - Machine-readable error codes for programmatic handling and exit codes
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (including unparseable tags)
//   - NO_* / EMPTY_*: A pipeline stage produced nothing usable
//   - GIT_* / NETWORK_*: Failures of the source-control collaborator
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNoVersions, "no versions found for major version %d", major)
//	if errors.Is(err, errors.ErrCodeNoVersions) {
//	    // Handle empty selection
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeGitOperation, origErr, "list tags of %s", remote)
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
	ErrCodeInvalidInput        Code = "INVALID_INPUT"
	ErrCodeInvalidVersion      Code = "INVALID_VERSION"
	ErrCodeInvalidDistribution Code = "INVALID_DISTRIBUTION"
	ErrCodeInvalidConfig       Code = "INVALID_CONFIG"
	ErrCodeInvalidPath         Code = "INVALID_PATH"

	// Pipeline outcome errors
	ErrCodeNoVersions  Code = "NO_VERSIONS"
	ErrCodeNoReleases  Code = "NO_RELEASES"
	ErrCodeEmptyOutput Code = "EMPTY_OUTPUT"

	// Collaborator errors
	ErrCodeGitOperation Code = "GIT_OPERATION"
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeNetwork      Code = "NETWORK_ERROR"

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
// Only the outermost *Error in the chain is consulted, so a wrapper's code
// takes precedence over the codes of the errors it wraps.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
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

// Fatal reports whether an error with the given code must abort a run.
// Parse failures are recovered by skipping the tag and an empty output is a
// successful (if unusual) result; everything else ends the run.
func Fatal(code Code) bool {
	switch code {
	case ErrCodeInvalidVersion, ErrCodeEmptyOutput:
		return false
	default:
		return true
	}
}
