package helper

import "fmt"

// Error wraps an underlying error with the operation that failed.
type Error struct {
	Operation string
	Err       error
}

// NewError creates an error describing a failed operation.
func NewError(operation string, err error) *Error {
	return &Error{Operation: operation, Err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("failed to %v: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Err
}
