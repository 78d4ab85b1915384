package storage

import (
	"errors"
	"fmt"
)

// ============================================================================
// STORAGE ERROR CODES
// ============================================================================
// These constants mirror domain error codes to avoid circular imports.
// The handler layer maps these to HTTP status codes.

const (
	codeInternal    = "internal"
	codeInvalid     = "invalid"
	codeNotFound    = "not_found"
	codeUnavailable = "unavailable"
)

// ============================================================================
// STORAGE ERROR TYPE
// ============================================================================

// StorageError represents a storage-specific error with a code and message.
type StorageError struct {
	Code    string
	Message string
	Err     error
}

func (e *StorageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the error code for HTTP status mapping.
func (e *StorageError) ErrorCode() string {
	return e.Code
}

// ErrorMessage returns the user-facing message.
func (e *StorageError) ErrorMessage() string {
	return e.Message
}

func newStorageError(code, message string) *StorageError {
	return &StorageError{Code: code, Message: message}
}

func wrapStorageError(code, message string, err error) *StorageError {
	return &StorageError{Code: code, Message: message, Err: err}
}

// ============================================================================
// STORAGE DOMAIN ERRORS
// ============================================================================

var (
	// ErrSlotNotFound is returned by Get when nothing is stored under the key.
	ErrSlotNotFound = newStorageError(codeNotFound, "slot not found")

	ErrDatabaseURLRequired = newStorageError(codeInvalid, "database URL is required")
	ErrRedisURLRequired    = newStorageError(codeInvalid, "redis URL is required")
	ErrEmptyKey            = newStorageError(codeInvalid, "slot key is required")
)

// IsNotFound reports whether err means the slot or object does not exist.
func IsNotFound(err error) bool {
	var se *StorageError
	if errors.As(err, &se) {
		return se.Code == codeNotFound
	}
	return false
}

// ErrObjectNotFound creates an error for a missing bucket object.
func ErrObjectNotFound(bucket, key string) error {
	return &StorageError{
		Code:    codeNotFound,
		Message: fmt.Sprintf("object not found: s3://%s/%s", bucket, key),
	}
}

// ErrUnknownProvider creates an error for unknown storage providers.
func ErrUnknownProvider(provider string) error {
	return &StorageError{
		Code:    codeInvalid,
		Message: fmt.Sprintf("unknown storage provider: %s", provider),
	}
}
