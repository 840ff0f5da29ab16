package models

import (
	"errors"
	"fmt"
)

// APIError represents a standardized error response for the API
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error code constants
const (
	ErrBadRequest       = "BAD_REQUEST"
	ErrUnauthorized     = "UNAUTHORIZED"
	ErrForbidden        = "FORBIDDEN"
	ErrNotFound         = "NOT_FOUND"
	ErrConflict         = "CONFLICT"
	ErrInternalServer   = "INTERNAL_SERVER_ERROR"
	ErrValidationFailed = "VALIDATION_FAILED"
)

// NewAPIError creates a new API error with the given code and message
func NewAPIError(code, message string, details ...map[string]interface{}) APIError {
	err := APIError{
		Code:    code,
		Message: message,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

// ValidationError signals malformed or inconsistent input: bad dates,
// non-positive quantities, inactive products, duplicate stages, edits after
// fulfillment. Mapped to 400, field-scoped where possible.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// NewValidationError builds a ValidationError without a field scope.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// NewFieldError builds a ValidationError scoped to a single field.
func NewFieldError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// PermissionDeniedError signals that the principal is authenticated but not
// entitled to the operation. Mapped to 403 with a human-readable reason.
type PermissionDeniedError struct {
	Reason string
}

func (e *PermissionDeniedError) Error() string { return e.Reason }

// NewPermissionDenied builds a PermissionDeniedError.
func NewPermissionDenied(reason string) *PermissionDeniedError {
	return &PermissionDeniedError{Reason: reason}
}

// NotFoundError covers both unknown ids and ids outside the caller's scope.
// Scope failures deliberately surface as 404 so unauthorized callers learn
// nothing about existence.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// NewNotFound builds a NotFoundError for the named resource.
func NewNotFound(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

// ConflictError signals a delete blocked by a protective relation. This
// system maps it to 400 with a descriptive detail rather than 409.
type ConflictError struct {
	Detail string
}

func (e *ConflictError) Error() string { return e.Detail }

// NewConflict builds a ConflictError.
func NewConflict(detail string) *ConflictError {
	return &ConflictError{Detail: detail}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsPermissionDenied reports whether err is a PermissionDeniedError.
func IsPermissionDenied(err error) bool {
	var pe *PermissionDeniedError
	return errors.As(err, &pe)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
