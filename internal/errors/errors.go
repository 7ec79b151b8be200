// Package errors provides the error types shared by the onion client,
// proxy and TUI.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrMissingAPIKey    = errors.New("missing API key")
)

// InputError represents an invalid prompt or file argument
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	if e.Message == "" {
		return "invalid input"
	}
	return fmt.Sprintf("invalid input: %s", e.Message)
}

// Is allows comparison with the ErrInvalidInput sentinel
func (e *InputError) Is(target error) bool {
	if target == ErrInvalidInput {
		return true
	}
	_, ok := target.(*InputError)
	return ok
}

// NewInputError creates a new InputError
func NewInputError(message string) *InputError {
	return &InputError{Message: message}
}

// ConfigError represents a server-side configuration problem, such as a
// missing credential
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	if e.Message == "" {
		return "server configuration error"
	}
	return fmt.Sprintf("server configuration error: %s", e.Message)
}

// Is allows comparison with the ErrMissingAPIKey sentinel
func (e *ConfigError) Is(target error) bool {
	if target == ErrMissingAPIKey {
		return true
	}
	_, ok := target.(*ConfigError)
	return ok
}

// NewConfigError creates a new ConfigError
func NewConfigError(message string) *ConfigError {
	return &ConfigError{Message: message}
}

// UpstreamError represents a failed call to the completion provider, or a
// non-success status reported by the proxy
type UpstreamError struct {
	StatusCode int
	Message    string
	Detail     string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return "AI request failed"
	}
	return e.Message
}

// NewUpstreamError creates a new UpstreamError
func NewUpstreamError(statusCode int, message, detail string) *UpstreamError {
	return &UpstreamError{
		StatusCode: statusCode,
		Message:    message,
		Detail:     detail,
	}
}

// TransportError represents a network-level failure before any HTTP status
// was received
type TransportError struct {
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request failed: %v", e.Err)
	}
	return fmt.Sprintf("request failed: %s", e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a new TransportError
func NewTransportError(message string, err error) *TransportError {
	return &TransportError{Message: message, Err: err}
}

// StorageError represents a persistent-storage read/write failure. Callers
// swallow these and treat the store as empty; they are never user-visible.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError creates a new StorageError
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

// HTTPStatus extracts the HTTP status carried by an error, or 0
func HTTPStatus(err error) int {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.StatusCode
	}
	return 0
}

// Detail extracts the diagnostic detail carried by an error, or ""
func Detail(err error) string {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Detail
	}
	return ""
}

// IsInvalidInput reports whether err is an input validation failure
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsConfig reports whether err is a server configuration failure
func IsConfig(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsUpstream reports whether err is an upstream/proxy-reported failure
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

// IsTransport reports whether err is a network-level failure
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsStorage reports whether err is a persistent-storage failure
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
