package utils

import (
	"errors"
	"fmt"
)

// ErrorCode classifies failures crossing a process boundary.
type ErrorCode string

const (
	// ErrCodeUnavailable means the remote service could not be reached.
	ErrCodeUnavailable ErrorCode = "UNAVAILABLE"
	// ErrCodeUpstream means the remote service answered with a non-2xx status.
	ErrCodeUpstream ErrorCode = "UPSTREAM"
	// ErrCodeInvalidResponse means the remote payload did not have the expected shape.
	ErrCodeInvalidResponse ErrorCode = "INVALID_RESPONSE"
	// ErrCodeInvalidRequest means the caller sent malformed input.
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	// ErrCodeInternal is everything else.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// StructuredError carries a code for programmatic handling alongside the
// human-readable message and the underlying cause.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *StructuredError) Unwrap() error {
	return e.Cause
}

func NewError(code ErrorCode, message string) *StructuredError {
	return &StructuredError{Code: code, Message: message}
}

func WrapError(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{Code: code, Message: message, Cause: cause}
}

func WrapErrorWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	return &StructuredError{Code: code, Message: message, Cause: cause, Context: context}
}

// CodeOf returns the code of the first StructuredError in err's chain, or
// ErrCodeInternal when there is none.
func CodeOf(err error) ErrorCode {
	var se *StructuredError
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}
