package entities

import (
	"errors"
	"fmt"
)

// The error taxonomy every handler and store maps into. The HTTP boundary
// translates these to status codes in one place instead of per route.

// ValidationError signals a bad or missing request field.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NewValidationError creates a validation error with the given message.
func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

// NotFoundError signals an unknown task or list identifier.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// NewNotFoundError creates a not-found error for the given resource and id.
func NewNotFoundError(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// AuthError signals a missing or invalid credential.
type AuthError struct {
	Msg string
}

func (e *AuthError) Error() string { return e.Msg }

// NewAuthError creates an authentication error with the given message.
func NewAuthError(msg string) error {
	return &AuthError{Msg: msg}
}

// UpstreamError signals a failed call to an external Google service.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// NewUpstreamError wraps an external service failure.
func NewUpstreamError(op string, err error) error {
	return &UpstreamError{Op: op, Err: err}
}

// StoreError signals a persistence layer failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NewStoreError wraps a persistence failure.
func NewStoreError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// Classification helpers used by the HTTP error handler and tests.

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

func IsStore(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
