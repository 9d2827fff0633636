// Package errors provides structured error types for slideslot.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the library packages
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The codes mirror the failure taxonomy of a placement run:
//   - INVALID_MAPPING: the mapping file as a whole is malformed (fatal)
//   - INVALID_RECORD: one line-oriented record is unparsable (skipped)
//   - INVALID_REFERENCE: an image or slide number is out of range (skipped)
//   - PLACEMENT_FAILED: the drawing collaborator rejected a placement (skipped)
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidReference, "image %d out of range", n)
//	if errors.Is(err, errors.ErrCodeInvalidReference) {
//	    // count as a skipped placement
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidMapping, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Mapping ingestion errors
	ErrCodeInvalidMapping    Code = "INVALID_MAPPING"
	ErrCodeInvalidRecord     Code = "INVALID_RECORD"
	ErrCodeUnsupportedFormat Code = "UNSUPPORTED_FORMAT"

	// Resolution errors
	ErrCodeInvalidReference Code = "INVALID_REFERENCE"
	ErrCodePlacementFailed  Code = "PLACEMENT_FAILED"

	// Input documents
	ErrCodeInvalidDeck     Code = "INVALID_DECK"
	ErrCodeInvalidDocument Code = "INVALID_DOCUMENT"
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidPath     Code = "INVALID_PATH"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"

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

// RecordError describes one unparsable mapping record. Line is the 1-based
// line (text, CSV) or record index (JSON, YAML, TOML, XLSX) of the record.
type RecordError struct {
	Line   int
	Record string
	Err    error
}

// Error implements the error interface.
func (e *RecordError) Error() string {
	if e.Record != "" {
		return fmt.Sprintf("record %d (%q): %v", e.Line, e.Record, e.Err)
	}
	return fmt.Sprintf("record %d: %v", e.Line, e.Err)
}

// Unwrap returns the wrapped error.
func (e *RecordError) Unwrap() error { return e.Err }

// Code returns the error code for this error type.
func (e *RecordError) Code() Code {
	return ErrCodeInvalidRecord
}
