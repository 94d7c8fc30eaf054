package domain

import (
	"errors"
	"fmt"
)

// Error categories. Every error raised by the core can be matched against one of these with errors.Is.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidState = errors.New("invalid task state")
	ErrValidation   = errors.New("validation failed")
)

var (
	ErrAlreadyCompleted      = fmt.Errorf("%w: task is already completed", ErrInvalidState)
	ErrInvalidTitle          = fmt.Errorf("%w: invalid title", ErrValidation)
	ErrInvalidPriority       = fmt.Errorf("%w: invalid priority", ErrValidation)
	ErrInvalidID             = fmt.Errorf("%w: invalid id", ErrValidation)
	ErrDueDateBeforeCreation = fmt.Errorf("%w: due date cannot be before creation date", ErrValidation)
)

// NotFoundError reports a missing resource by id.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func NewNotFoundError(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// InvariantError is returned by Task.Validate when a business rule does not hold.
type InvariantError struct {
	Field   string
	Message string
	cause   error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violated on field '%s': %s", e.Field, e.Message)
}

func (e *InvariantError) Unwrap() error {
	if e.cause != nil {
		return e.cause
	}

	return ErrValidation
}

func newInvariantError(field, message string, cause error) error {
	return &InvariantError{Field: field, Message: message, cause: cause}
}
