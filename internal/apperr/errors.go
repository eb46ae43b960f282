// Package apperr defines the domain error taxonomy shared by the
// repository, service, and handler layers.
package apperr

import "fmt"

// NotFoundError indicates the referenced user does not exist.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("user not found: %s", e.ID)
}

// NotFound returns a NotFoundError for the given user ID.
func NotFound(id string) error {
	return &NotFoundError{ID: id}
}

// AlreadyExistsError indicates the email uniqueness constraint was violated.
type AlreadyExistsError struct {
	Email string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("user with email %q already exists", e.Email)
}

// AlreadyExists returns an AlreadyExistsError for the given email.
func AlreadyExists(email string) error {
	return &AlreadyExistsError{Email: email}
}

// ValidationError indicates a specific field failed a business rule.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
}

// Validation returns a ValidationError for the given field.
func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// InvalidInputError indicates the request shape itself is invalid,
// e.g. an update with no fields to apply.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Message
}

// InvalidInput returns an InvalidInputError with the given message.
func InvalidInput(message string) error {
	return &InvalidInputError{Message: message}
}

// StorageError indicates an unexpected failure in the backing store.
// The underlying cause, if any, is available via Unwrap.
type StorageError struct {
	Message string
	Err     error
}

func (e *StorageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("storage error: %s: %v", e.Message, e.Err)
	}
	return "storage error: " + e.Message
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Storage returns a StorageError wrapping err.
func Storage(message string, err error) error {
	return &StorageError{Message: message, Err: err}
}

// InternalError indicates an unexpected condition inside the service.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return "internal error: " + e.Message
}

// Internal returns an InternalError with the given message.
func Internal(message string) error {
	return &InternalError{Message: message}
}
