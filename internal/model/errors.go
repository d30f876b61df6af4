package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is the sentinel stores return when a user has no document in
// a namespace. Read paths surface it as success-with-null, item-scoped
// mutations as 404.
var ErrNotFound = errors.New("not found")

// ValidationError represents a missing or malformed required field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) ValidationError {
	return ValidationError{Field: field, Message: message}
}

// IsValidationError checks if an error is a validation error (including wrapped errors).
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// ConflictError is returned when a push carries a timestamp older than the
// stored document. ServerDoc is the winning document so the caller can
// reconcile by pulling instead of the server silently merging.
type ConflictError struct {
	Message   string
	ServerDoc *ProgressDocument
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s", e.Message)
}

// NewConflictError constructs a ConflictError carrying the winning document.
func NewConflictError(message string, serverDoc *ProgressDocument) ConflictError {
	return ConflictError{Message: message, ServerDoc: serverDoc}
}

// IsConflictError checks if error is a ConflictError.
func IsConflictError(err error) bool {
	var ce ConflictError
	return errors.As(err, &ce)
}

// AsConflictError unwraps err into a ConflictError when possible.
func AsConflictError(err error) (ConflictError, bool) {
	var ce ConflictError
	ok := errors.As(err, &ce)
	return ce, ok
}

// NotFoundError represents a missing item-scoped resource (e.g. a note id
// with no record behind it).
type NotFoundError struct {
	Field   string
	Message string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("not found %s: %s", e.Field, e.Message)
}

// NewNotFoundError constructs a NotFoundError.
func NewNotFoundError(field, message string) NotFoundError {
	return NotFoundError{Field: field, Message: message}
}

// IsNotFoundError checks if error is NotFoundError or the ErrNotFound sentinel.
func IsNotFoundError(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var ne NotFoundError
	return errors.As(err, &ne)
}

// StorageError wraps an I/O failure from the flat-file store. Handlers log
// the cause and return a generic message so filesystem paths never reach
// clients outside development mode.
type StorageError struct {
	Op    string
	Cause error
}

func (e StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Cause)
}

func (e StorageError) Unwrap() error { return e.Cause }

// NewStorageError wraps cause with the failing operation name.
func NewStorageError(op string, cause error) StorageError {
	return StorageError{Op: op, Cause: cause}
}

// IsStorageError checks if error is a StorageError.
func IsStorageError(err error) bool {
	var se StorageError
	return errors.As(err, &se)
}

// UpstreamError represents a failure talking to the chat-completion
// service. Message is safe to show callers; Cause is development-only.
type UpstreamError struct {
	StatusCode int
	Message    string
	Cause      error
}

func (e UpstreamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("upstream: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("upstream: %s", e.Message)
}

func (e UpstreamError) Unwrap() error { return e.Cause }

// NewUpstreamError constructs an UpstreamError.
func NewUpstreamError(statusCode int, message string, cause error) UpstreamError {
	return UpstreamError{StatusCode: statusCode, Message: message, Cause: cause}
}

// IsUpstreamError checks if error is an UpstreamError.
func IsUpstreamError(err error) bool {
	var ue UpstreamError
	return errors.As(err, &ue)
}
