package errors

import (
	"errors"
	"fmt"
)

// Custom error types for the happy thoughts application

// ErrThoughtNotFound is returned when no thought matches the requested identifier
var ErrThoughtNotFound = errors.New("thought not found")

// ErrInvalidThoughtID is returned when the identifier is not a well-formed thought ID
var ErrInvalidThoughtID = errors.New("invalid thought id")

// ErrUnsupportedDriver is returned when the configured storage driver is unknown
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// ValidationError is returned when a thought field breaks its constraints.
// Nothing is persisted when this error is raised.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// StorageError wraps any failure coming back from the storage backend.
type StorageError struct {
	Op  string
	Err error
}

func (e StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e StorageError) Unwrap() error {
	return e.Err
}
