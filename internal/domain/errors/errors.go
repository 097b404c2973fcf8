package errors

import (
	"net/http"

	"courier/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.details == "" {
		return e.message
	}

	return e.message + ": " + e.details
}

// Is matches any BaseError carrying the same business code, so copies made by
// WithDetails or WithReason still satisfy errors.Is against the predefined values.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return t.errorCode == e.errorCode
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// WithReason appends a human-readable reason to the user-facing message.
// Used where the reason must reach the caller even on 5xx responses.
func (e *BaseError) WithReason(reason string) *BaseError {
	if reason == "" {
		return e
	}

	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message + ": " + reason,
		details:   e.details,
	}
}

// Predefined error types
var (
	// Validation-related errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"input validation failed",
		"",
	)

	ErrInvalidRecipients = NewBaseError(
		http.StatusBadRequest,
		"INVALID_RECIPIENTS",
		"recipient list is malformed",
		"",
	)

	ErrDuplicateName = NewBaseError(
		http.StatusConflict,
		"DUPLICATE_NAME",
		"a connection with this name already exists for the account",
		"",
	)

	// Server pool errors
	ErrNoServerAvailable = NewBaseError(
		http.StatusServiceUnavailable,
		"NO_SERVER_AVAILABLE",
		"no active transport server is available",
		"",
	)

	ErrCapacityExceeded = NewBaseError(
		http.StatusServiceUnavailable,
		"CAPACITY_EXCEEDED",
		"transport server capacity exceeded",
		"",
	)

	ErrServerNotFound = NewBaseError(
		http.StatusNotFound,
		"SERVER_NOT_FOUND",
		"transport server not found",
		"",
	)

	ErrServerAlreadyExists = NewBaseError(
		http.StatusConflict,
		"SERVER_ALREADY_EXISTS",
		"transport server already registered",
		"",
	)

	// Transport errors
	ErrTransportUnavailable = NewBaseError(
		http.StatusServiceUnavailable,
		"TRANSPORT_UNAVAILABLE",
		"transport server unreachable",
		"",
	)

	ErrTransportRejected = NewBaseError(
		http.StatusBadGateway,
		"TRANSPORT_REJECTED",
		"transport server rejected the request",
		"",
	)

	// Connection errors
	ErrConnectionNotFound = NewBaseError(
		http.StatusNotFound,
		"CONNECTION_NOT_FOUND",
		"connection not found",
		"",
	)

	ErrConnectionNotReady = NewBaseError(
		http.StatusConflict,
		"CONNECTION_NOT_READY",
		"connection is not connected",
		"",
	)

	ErrInvalidState = NewBaseError(
		http.StatusConflict,
		"INVALID_STATE",
		"operation not allowed in the current connection state",
		"",
	)

	// Job errors
	ErrJobNotFound = NewBaseError(
		http.StatusNotFound,
		"JOB_NOT_FOUND",
		"job not found",
		"",
	)

	ErrJobFinished = NewBaseError(
		http.StatusConflict,
		"JOB_FINISHED",
		"job has already finished",
		"",
	)

	ErrCancelled = NewBaseError(
		http.StatusConflict,
		"CANCELLED",
		"operation cancelled",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"internal error",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"resource not found",
		"",
	)
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// Unwrap exposes the driver error
func (e *DatabaseExecuteError) Unwrap() error {
	return e.err
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "database execution failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
