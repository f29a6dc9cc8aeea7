package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrCorruptedStorage is returned when persisted data cannot be parsed as
	// a sequence of entry records. Such data is never repaired automatically.
	ErrCorruptedStorage = errors.New("corrupted storage")

	// ErrSaveFailed is returned when the collection could not be persisted.
	// The previously persisted collection is left in place.
	ErrSaveFailed = errors.New("save failed")
)

// CorruptedStorageError describes why persisted data was rejected.
type CorruptedStorageError struct {
	Location string // File path or database the data was read from
	Reason   string // Human readable cause
	Err      error  // Underlying decode error, if any
}

// Error implements the error interface for CorruptedStorageError.
func (e *CorruptedStorageError) Error() string {
	msg := fmt.Sprintf("storage %s is corrupted: %s", e.Location, e.Reason)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg + "; please fix or delete it"
}

// Unwrap returns the wrapped errors to support errors.Is/errors.As.
// A CorruptedStorageError always matches ErrCorruptedStorage.
func (e *CorruptedStorageError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrCorruptedStorage}
	}
	return []error{ErrCorruptedStorage, e.Err}
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Operation string // The operation that failed (e.g., "load", "save")
	Location  string // File path or database
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %v", e.Operation, e.Location, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Operation, e.Location, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given operation, location, message, and wrapped error.
func NewStoreError(operation, location, message string, err error) *StoreError {
	return &StoreError{
		Operation: operation,
		Location:  location,
		Message:   message,
		Err:       err,
	}
}
