// Package errors provides structured error types for the anml toolkit.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library and the CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly diagnostics that name the offending element
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes are grouped by the stage that raises them:
//   - model construction: INVALID_IDENTIFIER, DUPLICATE_IDENTIFIER,
//     INCONSISTENT_REPORT, INVALID_TARGET, TYPE_MISMATCH
//   - graph-exchange import: MALFORMED_LABEL, LABEL_MISMATCH, DUPLICATE_ACCEPT
//   - I/O boundary: INVALID_FORMAT, INVALID_INPUT, FILE_NOT_FOUND
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidTarget, "counter %q: target %d must be positive", id, n)
//	if errors.Is(err, errors.ErrCodeInvalidTarget) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "parse %s", path)
//
// An *Error also matches another *Error carrying the same code under the
// standard library's errors.Is, so packages can export sentinel values:
//
//	var ErrInvalidTarget = errors.New(errors.ErrCodeInvalidTarget, "counter target must be positive")
//	stderrors.Is(err, ErrInvalidTarget) // true for any INVALID_TARGET error
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Model construction errors
	ErrCodeInvalidIdentifier   Code = "INVALID_IDENTIFIER"
	ErrCodeDuplicateIdentifier Code = "DUPLICATE_IDENTIFIER"
	ErrCodeInconsistentReport  Code = "INCONSISTENT_REPORT"
	ErrCodeInvalidTarget       Code = "INVALID_TARGET"
	ErrCodeTypeMismatch        Code = "TYPE_MISMATCH"

	// Graph-exchange import errors
	ErrCodeMalformedLabel  Code = "MALFORMED_LABEL"
	ErrCodeLabelMismatch   Code = "LABEL_MISMATCH"
	ErrCodeDuplicateAccept Code = "DUPLICATE_ACCEPT"

	// Input errors
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

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

// Is reports whether target is an *Error with the same code.
// This lets exported sentinel values match any error of their code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
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
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s", e.Message, UserMessage(e.Cause))
		}
		return e.Message
	}
	return err.Error()
}
