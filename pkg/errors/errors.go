// Package errors provides custom error types for the pubsync system.
// Every failure surfaced by the sync layer carries a machine-readable Kind
// plus a human-readable message, so callers can branch on the kind instead
// of matching on error text.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// As is an alias for the standard library errors.As.
var As = errors.As

// Is is an alias for the standard library errors.Is.
var Is = errors.Is

// Common sentinel errors for the pubsync system
var (
	// ErrNotFound indicates that a requested publication was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that a local precondition failed
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration indicates that required configuration is missing
	ErrConfiguration = errors.New("configuration error")

	// ErrUploadFailed indicates that the cover upload did not produce a durable URL
	ErrUploadFailed = errors.New("upload failed")

	// ErrRemoteRequest indicates that a REST call failed
	ErrRemoteRequest = errors.New("remote request failed")

	// ErrNotAuthenticated indicates that no credential is available
	ErrNotAuthenticated = errors.New("not authenticated")
)

// Kind classifies an error so callers can branch on it.
type Kind string

// Error kinds.
const (
	KindUnknown        Kind = "unknown"
	KindConfiguration  Kind = "configuration"
	KindUpload         Kind = "upload"
	KindRemoteRequest  Kind = "remote_request"
	KindValidation     Kind = "validation"
	KindAuthentication Kind = "authentication"
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}

// Kinded is implemented by every error type in this package.
type Kinded interface {
	error
	Kind() Kind
}

// KindOf returns the kind of the first Kinded error in err's chain,
// or KindUnknown when there is none.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var k Kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindUnknown
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Missing   []string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	msg := e.Message
	if len(e.Missing) > 0 {
		msg = fmt.Sprintf("%s (missing: %v)", msg, e.Missing)
	}
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, msg)
	}
	return fmt.Sprintf("configuration error: %s", msg)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}

// Kind implements Kinded.
func (e *ConfigError) Kind() Kind {
	return KindConfiguration
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// NewMissingConfigError creates a ConfigError listing missing settings.
func NewMissingConfigError(component string, missing ...string) *ConfigError {
	return &ConfigError{
		Component: component,
		Missing:   missing,
		Message:   "required settings are not set",
	}
}

// UploadError represents a failed cover upload to the object store
type UploadError struct {
	Store      string // "cloudinary", "s3"
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *UploadError) Error() string {
	if e.Store != "" {
		return fmt.Sprintf("upload failed (%s): %s", e.Store, e.Message)
	}
	return fmt.Sprintf("upload failed: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *UploadError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *UploadError) Is(target error) bool {
	return target == ErrUploadFailed
}

// Kind implements Kinded.
func (e *UploadError) Kind() Kind {
	return KindUpload
}

// NewUploadError creates a new UploadError
func NewUploadError(store, message string, err error) *UploadError {
	return &UploadError{
		Store:   store,
		Message: message,
		Err:     err,
	}
}

// APIError represents a failed REST call. Message already combines the
// operation prefix with the server-provided detail, or a generic fallback.
type APIError struct {
	Operation  string // "list", "create", "update", "delete"
	Method     string
	Endpoint   string
	StatusCode int
	Message    string
	Payload    []byte
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	return e.Message
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	return target == ErrRemoteRequest
}

// Kind implements Kinded.
func (e *APIError) Kind() Kind {
	return KindRemoteRequest
}

// NewAPIError creates a new APIError
func NewAPIError(operation string, statusCode int, message string) *APIError {
	return &APIError{
		Operation:  operation,
		StatusCode: statusCode,
		Message:    message,
	}
}

// ValidationError represents a local precondition failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Kind implements Kinded.
func (e *ValidationError) Kind() Kind {
	return KindValidation
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// NotFoundError represents an error when a publication is not in the catalog
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound || target == ErrInvalidInput
}

// Kind implements Kinded. A missing record is a local precondition failure.
func (e *NotFoundError) Kind() Kind {
	return KindValidation
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// AuthenticationError represents a missing or unusable credential
type AuthenticationError struct {
	Method  string // "bearer"
	Message string
	Err     error
}

// Error implements the error interface
func (e *AuthenticationError) Error() string {
	if e.Method != "" {
		return fmt.Sprintf("authentication error (%s): %s", e.Method, e.Message)
	}
	return fmt.Sprintf("authentication error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrNotAuthenticated
}

// Kind implements Kinded.
func (e *AuthenticationError) Kind() Kind {
	return KindAuthentication
}

// NewAuthenticationError creates a new AuthenticationError
func NewAuthenticationError(method, message string, err error) *AuthenticationError {
	return &AuthenticationError{
		Method:  method,
		Message: message,
		Err:     err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsConfigError checks if an error is a configuration error
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsUploadFailure checks if an error is an upload failure
func IsUploadFailure(err error) bool {
	return errors.Is(err, ErrUploadFailed)
}

// IsRemoteRequestFailure checks if an error is a failed REST call
func IsRemoteRequestFailure(err error) bool {
	return errors.Is(err, ErrRemoteRequest)
}

// IsNotAuthenticated checks if an error reports a missing credential
func IsNotAuthenticated(err error) bool {
	return errors.Is(err, ErrNotAuthenticated)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapUpload wraps an error as an UploadError
func WrapUpload(store string, err error) error {
	if err == nil {
		return nil
	}
	var up *UploadError
	if errors.As(err, &up) {
		return err
	}
	return NewUploadError(store, err.Error(), err)
}
