// Package errors provides structured error types for badgepress.
//
// Every failure that crosses a package boundary carries a machine-readable
// [Code] so callers can tell per-record problems (a malformed roster row, an
// unknown ticket type) from batch-fatal ones (the typeface cannot be loaded,
// the output directory is not writable) without string matching.
//
// # Error Codes
//
// Codes are grouped by the scope of the failure:
//   - per record, skipped: MALFORMED_ROW, UNKNOWN_CATEGORY, UNKNOWN_TICKET_TYPE
//   - per record, failed: TEMPLATE_OPEN, WRITE_FAILED
//   - batch-fatal: FONT_LOAD, INFRASTRUCTURE
//   - request level: INVALID_*, NOT_FOUND, INTERNAL
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownCategory, "unknown category %q", c)
//	if errors.Is(err, errors.ErrCodeUnknownCategory) {
//	    // skip the record
//	}
//
//	err := errors.Wrap(errors.ErrCodeTemplateOpen, origErr, "open %s", path)
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
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeMalformedRow  Code = "MALFORMED_ROW"

	// Resolution errors
	ErrCodeUnknownCategory   Code = "UNKNOWN_CATEGORY"
	ErrCodeUnknownTicketType Code = "UNKNOWN_TICKET_TYPE"

	// Rendering errors
	ErrCodeTemplateOpen Code = "TEMPLATE_OPEN"
	ErrCodeFontLoad     Code = "FONT_LOAD"
	ErrCodeWriteFailed  Code = "WRITE_FAILED"

	// Resource errors
	ErrCodeNotFound       Code = "NOT_FOUND"
	ErrCodeInfrastructure Code = "INFRASTRUCTURE"

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
// Only the outermost *Error in the chain is consulted, so a wrapping error
// with a different code hides the inner one.
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
			return e.Message + ": " + e.Cause.Error()
		}
		return e.Message
	}
	return err.Error()
}

// IsRecordScoped reports whether err only affects the record it was raised
// for. Such errors are folded into per-record results instead of aborting a
// batch.
func IsRecordScoped(err error) bool {
	switch GetCode(err) {
	case ErrCodeMalformedRow, ErrCodeUnknownCategory, ErrCodeUnknownTicketType,
		ErrCodeTemplateOpen, ErrCodeWriteFailed:
		return true
	}
	return false
}
