package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific error type for cache and agent operations.
type ErrorCode string

const (
	// ErrCodeProfileNotFound indicates no profile row exists for the user.
	// This is the absence-signal: the user has not onboarded yet.
	ErrCodeProfileNotFound ErrorCode = "PROFILE_NOT_FOUND"
	// ErrCodeStoreUnavailable indicates a relational-store query failed.
	ErrCodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
	// ErrCodeCorruptRecord indicates a cache record failed to deserialize.
	ErrCodeCorruptRecord ErrorCode = "CORRUPT_RECORD"
	// ErrCodeWriteFailed indicates persisting a cache record to disk failed.
	ErrCodeWriteFailed ErrorCode = "WRITE_FAILED"
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeLLMUnavailable indicates the LLM service is not available.
	ErrCodeLLMUnavailable ErrorCode = "LLM_UNAVAILABLE"
)

// Error represents a structured error with a stable code.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an error with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error with the given code wrapping a cause.
func Wrap(cause error, code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// IsCode reports whether err carries the given code anywhere in its chain.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
