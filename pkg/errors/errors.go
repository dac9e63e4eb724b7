// Package errors provides structured error types for openml-go.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the converter, trace codecs, and CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - UNSUPPORTED_*: Values the converter cannot classify or reconstruct
//   - DUPLICATE_* / SHADOWED_*: Structural collisions in a flow
//   - UNKNOWN_*: Identities or packages missing from the registries
//   - MALFORMED_*: Invalid trace input
//   - NOT_FOUND*: Resource not found
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnsupportedValue, "cannot convert %v", v)
//	if errors.Is(err, errors.ErrCodeUnsupportedValue) {
//	    // Handle classification failure
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeMalformedTrace, origErr, "parse %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Conversion failures
	ErrCodeUnsupportedValue   Code = "UNSUPPORTED_VALUE"
	ErrCodeDuplicateComponent Code = "DUPLICATE_COMPONENT"
	ErrCodeShadowedParameter  Code = "SHADOWED_PARAMETER"
	ErrCodeInvalidKey         Code = "INVALID_KEY"

	// Registry/identity failures
	ErrCodeUnknownIdentity Code = "UNKNOWN_IDENTITY"
	ErrCodeUnknownPackage  Code = "UNKNOWN_PACKAGE"

	// Reconstruction failures
	ErrCodeDependencyMismatch Code = "DEPENDENCY_MISMATCH"
	ErrCodeInvalidFlow        Code = "INVALID_FLOW"

	// Trace failures
	ErrCodeMalformedTrace Code = "MALFORMED_TRACE"
	ErrCodeNoSelection    Code = "NO_SELECTION"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

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
