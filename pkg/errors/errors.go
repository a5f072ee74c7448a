// Package errors provides structured error types for heatnet.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (fatal, not retried)
//   - DISCONNECTED_*: Graph connectivity failures
//   - DEGENERATE_*: Geometry failures
//   - NOT_FOUND_*: Resource not found
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeEmptyTerminals, "no building or generator terminals given")
//	if errors.Is(err, errors.ErrCodeEmptyTerminals) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidInput, origErr, "street graph %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors: the synthesis call aborts with no output.
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeEmptyTerminals Code = "INVALID_EMPTY_TERMINALS"
	ErrCodeEmptyGraph     Code = "INVALID_EMPTY_GRAPH"

	// Connectivity errors: a terminal's nearest graph node cannot reach the
	// rest of the terminal set, so no Steiner tree exists.
	ErrCodeDisconnectedGraph Code = "DISCONNECTED_GRAPH"

	// Geometry errors: a tree edge's endpoints coincide and projection onto
	// it is undefined.
	ErrCodeDegenerateEdge Code = "DEGENERATE_EDGE"

	// Resource not found errors (run store, cache).
	ErrCodeNotFound    Code = "NOT_FOUND"
	ErrCodeRunNotFound Code = "RUN_NOT_FOUND"

	// Internal errors.
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

// Is reports whether err carries the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns ErrCodeInternal if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}

// IsValidation reports whether the error is one of the fatal input-validation
// codes. Validation failures map to HTTP 400 in the API layer.
func IsValidation(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeEmptyTerminals, ErrCodeEmptyGraph,
		ErrCodeDisconnectedGraph, ErrCodeDegenerateEdge:
		return true
	}
	return false
}
