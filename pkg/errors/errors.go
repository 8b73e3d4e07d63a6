// Package errors provides structured error types for cdnfetch.
//
// Every failure that crosses a package boundary carries a machine-readable
// [Code] so that the command line, the bridge server and the notification
// sink can render it consistently without string matching.
//
// # Error Codes
//
// Codes fall into three groups:
//   - Request errors: INVALID_IDENTIFIER, INVALID_INPUT, INVALID_CONFIG
//   - Provider errors: PROVIDER_NOT_FOUND, PROVIDER_DISABLED,
//     UNSUPPORTED_CAPABILITY, DELIVERY_FAILED, ALL_PROVIDERS_EXHAUSTED
//   - Infrastructure errors: NOT_FOUND, NETWORK_ERROR, INTERNAL_ERROR
//
// VERSION_RESOLUTION_FAILED exists for observability only; the resolver
// never returns it to callers.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidIdentifier, "invalid package format: %s", raw)
//	if errors.Is(err, errors.ErrCodeInvalidIdentifier) {
//	    // report to the user
//	}
//
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "failed to fetch %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Request errors
	ErrCodeInvalidIdentifier Code = "INVALID_IDENTIFIER"
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidConfig     Code = "INVALID_CONFIG"

	// Provider errors
	ErrCodeProviderNotFound      Code = "PROVIDER_NOT_FOUND"
	ErrCodeProviderDisabled      Code = "PROVIDER_DISABLED"
	ErrCodeUnsupportedCapability Code = "UNSUPPORTED_CAPABILITY"
	ErrCodeDeliveryFailed        Code = "DELIVERY_FAILED"
	ErrCodeAllProvidersExhausted Code = "ALL_PROVIDERS_EXHAUSTED"
	ErrCodeVersionResolution     Code = "VERSION_RESOLUTION_FAILED"

	// Infrastructure errors
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeNetwork  Code = "NETWORK_ERROR"
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

// HTTPStatus maps a code to the status the bridge server answers with.
func HTTPStatus(code Code) int {
	switch code {
	case ErrCodeInvalidIdentifier, ErrCodeInvalidInput, ErrCodeInvalidConfig,
		ErrCodeUnsupportedCapability:
		return 400
	case ErrCodeProviderNotFound, ErrCodeNotFound:
		return 404
	case ErrCodeProviderDisabled:
		return 409
	case ErrCodeDeliveryFailed, ErrCodeAllProvidersExhausted, ErrCodeNetwork:
		return 502
	default:
		return 500
	}
}
