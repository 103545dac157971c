package core

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat is matched by every *FormatError.
	ErrFormat = errors.New("invalid account document")

	// ErrAlreadyInProgress is returned by the task factories while another operation is in flight.
	ErrAlreadyInProgress = errors.New("an authentication operation is already in progress")

	// ErrUnsupportedCredential is returned when an operation needs a credential kind the account type does not accept.
	ErrUnsupportedCredential = errors.New("account type does not support this credential kind")

	// ErrNotLoggedIn is delivered by operations that need an access token when there is none.
	ErrNotLoggedIn = errors.New("account is not logged in")

	// ErrOperationFailed is matched by every *OperationError.
	ErrOperationFailed = errors.New("authentication operation failed")
)

// FormatError describes a malformed or unsupported persisted document.
type FormatError struct {
	// Field is the (dotted) path of the offending key, empty for document-level problems.
	Field  string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrFormat, e.Reason)
	}
	return fmt.Sprintf("%s: field '%s': %s", ErrFormat, e.Field, e.Reason)
}

func (e *FormatError) Unwrap() error {
	return ErrFormat
}

// NewFormatError creates a FormatError for field.
func NewFormatError(field, format string, args ...any) *FormatError {
	return &FormatError{
		Field:  field,
		Reason: fmt.Sprintf(format, args...),
	}
}

// OperationError is the failure reason of a finished operation.
// It is only ever delivered through the operation, never returned by the account itself.
type OperationError struct {
	Kind OperationKind
	Err  error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Kind, e.Err)
}

func (e *OperationError) Unwrap() []error {
	return []error{ErrOperationFailed, e.Err}
}
