package service

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed or missing client input
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError
func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports that an upstream service had no matching data
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// NewNotFoundError creates a NotFoundError
func NewNotFoundError(message string) error {
	return &NotFoundError{Message: message}
}

// UpstreamError reports a transport failure or non-success status from a dependency.
// StatusCode is zero when no response was received.
type UpstreamError struct {
	Service    string
	Message    string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Service, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Service, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Detail returns the underlying failure message, if any
func (e *UpstreamError) Detail() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// NewUpstreamError creates an UpstreamError for the named service
func NewUpstreamError(service, message string, statusCode int, err error) error {
	return &UpstreamError{
		Service:    service,
		Message:    message,
		StatusCode: statusCode,
		Err:        err,
	}
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsUpstream reports whether err is an UpstreamError
func IsUpstream(err error) bool {
	var up *UpstreamError
	return errors.As(err, &up)
}
