// Package apperr defines the error kinds shared by every domain service.
// Domain packages declare their sentinels with these types so that the HTTP
// layer can map any of them to a status code without knowing the domain.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError represents a rejected input with field context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("validation error (%s): %s", e.Field, e.Message)
}

// NotFoundError represents a missing resource
type NotFoundError struct {
	Resource string // e.g., "post", "comment", "user"
	ID       string // optional identifier
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// PermissionError is returned when the actor may not perform an action
type PermissionError struct {
	Action  string
	Message string
}

func (e *PermissionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "not allowed to " + e.Action
}

// ConflictError is returned when a unique field is already taken
type ConflictError struct {
	Resource string
	Message  string
}

func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Resource + " already exists"
}

// UpstreamError wraps a failure of a collaborator (database, mail server)
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Validation creates a new validation error
func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NotFound creates a new not found error
func NotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// Permission creates a new permission error
func Permission(action, message string) error {
	return &PermissionError{Action: action, Message: message}
}

// Conflict creates a new conflict error
func Conflict(resource, message string) error {
	return &ConflictError{Resource: resource, Message: message}
}

// Upstream wraps err as an UpstreamError unless it already carries one of
// the known kinds, in which case it is returned unchanged.
func Upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsValidation(err) || IsNotFound(err) || IsPermission(err) || IsConflict(err) || IsUpstream(err) {
		return err
	}
	return &UpstreamError{Op: op, Err: err}
}

// IsValidation checks if err is a validation error
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFound checks if err is a not found error
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsPermission checks if err is a permission error
func IsPermission(err error) bool {
	var target *PermissionError
	return errors.As(err, &target)
}

// IsConflict checks if err is a conflict error
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsUpstream checks if err is an upstream error
func IsUpstream(err error) bool {
	var target *UpstreamError
	return errors.As(err, &target)
}

// Message returns the user facing text of a known error kind.
func Message(err error) string {
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Message
	}
	var p *PermissionError
	if errors.As(err, &p) {
		return p.Error()
	}
	var c *ConflictError
	if errors.As(err, &c) {
		return c.Error()
	}
	var n *NotFoundError
	if errors.As(err, &n) {
		return n.Error()
	}
	return "An internal error occurred"
}
