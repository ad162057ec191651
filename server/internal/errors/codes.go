package errors

import (
	"errors"
	"fmt"
)

// ErrorCode classifies failures so callers can tell "not allowed" (never
// retry-safe) from "try again" (retry-safe) without parsing messages.
type ErrorCode string

const (
	// ErrCodeUnauthorized indicates the permission predicate failed.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeNotFound indicates the requested entity does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeUpstreamFailed indicates a module service call failed during fan-out.
	ErrCodeUpstreamFailed ErrorCode = "UPSTREAM_FAILED"
	// ErrCodeCacheUnavailable indicates the shared cache could not be reached.
	// Consumers recover from this locally; it should never reach an end caller.
	ErrCodeCacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"
	// ErrCodeTimeout indicates the fan-out join exceeded its deadline.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// DomainError carries a code plus the underlying cause.
type DomainError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Retryable reports whether the caller may safely retry the operation.
func (e *DomainError) Retryable() bool {
	switch e.Code {
	case ErrCodeUpstreamFailed, ErrCodeCacheUnavailable, ErrCodeTimeout:
		return true
	default:
		return false
	}
}

// Unauthorized creates an authorization error.
func Unauthorized(msg string) *DomainError {
	return &DomainError{Code: ErrCodeUnauthorized, Message: msg}
}

// InvalidArgument creates an invalid-argument error.
func InvalidArgument(msg string) *DomainError {
	return &DomainError{Code: ErrCodeInvalidArgument, Message: msg}
}

// NotFound creates a not-found error.
func NotFound(msg string) *DomainError {
	return &DomainError{Code: ErrCodeNotFound, Message: msg}
}

// UpstreamFailed wraps a failed module service call.
func UpstreamFailed(msg string, cause error) *DomainError {
	return &DomainError{Code: ErrCodeUpstreamFailed, Message: msg, Cause: cause}
}

// Timeout wraps a fan-out join that exceeded its deadline.
func Timeout(msg string, cause error) *DomainError {
	return &DomainError{Code: ErrCodeTimeout, Message: msg, Cause: cause}
}

// CacheUnavailable wraps a shared-cache failure.
func CacheUnavailable(msg string, cause error) *DomainError {
	return &DomainError{Code: ErrCodeCacheUnavailable, Message: msg, Cause: cause}
}

// CodeOf extracts the ErrorCode from err, or ErrCodeUpstreamFailed when err
// carries no code.
func CodeOf(err error) ErrorCode {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ErrCodeUpstreamFailed
}

// IsUnauthorized reports whether err is an authorization failure.
func IsUnauthorized(err error) bool {
	return CodeOf(err) == ErrCodeUnauthorized
}
