// Package errors provides structured error types for nanotex.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and library packages
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//
// # Error Codes
//
// The codes mirror the failure modes of dependency discovery:
//   - MANIFEST_MISSING: a requested package has no manifest record
//   - COMPILER_FAILURE: the document compiler exited non-zero
//   - MALFORMED_LOG: the compiler trace log had unbalanced scopes
//   - STORE_MISSING: no persisted package database was found
//   - BUILD_FAILURE: an external build step failed (short report only)
//
// # Usage
//
//	err := errors.New(errors.ErrCodeManifestMissing, "no manifest for %s", pkg)
//	if errors.Is(err, errors.ErrCodeManifestMissing) {
//	    // skip in tenacious mode
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeCompilerFailure, origErr, "pdflatex %s", file)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Discovery errors
	ErrCodeManifestMissing Code = "MANIFEST_MISSING"
	ErrCodeCompilerFailure Code = "COMPILER_FAILURE"
	ErrCodeMalformedLog    Code = "MALFORMED_LOG"
	ErrCodeStoreMissing    Code = "STORE_MISSING"
	ErrCodeBuildFailure    Code = "BUILD_FAILURE"

	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"
	ErrCodeInvalidStore    Code = "INVALID_STORE"

	// Network errors
	ErrCodeNetwork  Code = "NETWORK_ERROR"
	ErrCodeNotFound Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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
// It unwraps the error chain looking for an *Error with a matching code.
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
		return e.Message
	}
	return err.Error()
}

// IsBuildFailure reports whether err stems from an external build step
// (compiler run, archive extraction). Such failures are reported without
// the full cause chain unless tracing is requested.
func IsBuildFailure(err error) bool {
	switch GetCode(err) {
	case ErrCodeBuildFailure, ErrCodeCompilerFailure:
		return true
	}
	return false
}
