// Package errors provides custom error types for the campsync system.
// The sync loop catches every error at a single boundary; the types here
// let it (and tests) distinguish source, store, and record failures
// programmatically via errors.Is instead of string matching.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is reports whether any error in err's tree matches target.
// It's an alias for the standard library errors.Is for convenience.
var Is = errors.Is

// As finds the first error in err's tree that matches target.
// It's an alias for the standard library errors.As for convenience.
var As = errors.As

// Common sentinel errors for the campsync system
var (
	// ErrSourceUnavailable indicates the registration API could not be
	// reached or refused the request
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrStoreUnavailable indicates the destination spreadsheet could not
	// be read or written
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrMalformedRecord indicates a registration record that cannot be
	// interpreted (unparseable timestamp, missing required field)
	ErrMalformedRecord = errors.New("malformed record")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrAPIKeyRequired indicates that an API token is required but not provided
	ErrAPIKeyRequired = errors.New("API token required")

	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")
)

// SourceError represents a failure fetching from the registration API.
type SourceError struct {
	Endpoint string
	Message  string
	Err      error
}

// Error implements the error interface
func (e *SourceError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("source error fetching %s: %s", e.Endpoint, e.Message)
	}
	return fmt.Sprintf("source error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *SourceError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *SourceError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

// StoreError represents a failure reading or writing the destination store.
type StoreError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *StoreError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("store error during %s: %s", e.Operation, e.Message)
	}
	return fmt.Sprintf("store error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *StoreError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

// RecordError represents a registration record that failed to parse.
type RecordError struct {
	Field   string
	Value   string
	Message string
	Err     error
}

// Error implements the error interface
func (e *RecordError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("malformed record field %s=%q: %s", e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("malformed record: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *RecordError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *RecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// APIError represents an HTTP-level error from a remote API.
type APIError struct {
	Service    string
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Service, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Service, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	if e.StatusCode == 404 {
		return target == ErrNotFound
	}
	return target == ErrSourceUnavailable
}

// ValidationError represents a validation failure
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

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IOError represents a filesystem error, e.g. while writing snapshots.
type IOError struct {
	Operation string
	Path      string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	return fmt.Sprintf("io error during %s of %s: %v", e.Operation, e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError represents a failure decoding structured data.
type ParseError struct {
	Format  string
	Subject string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error decoding %s as %s: %v", e.Subject, e.Format, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Helper wrapping functions for common patterns

// WrapSource wraps an error as a SourceError
func WrapSource(endpoint string, err error) error {
	if err == nil {
		return nil
	}
	return &SourceError{Endpoint: endpoint, Message: err.Error(), Err: err}
}

// WrapStore wraps an error as a StoreError
func WrapStore(operation string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Operation: operation, Message: err.Error(), Err: err}
}

// WrapRecord wraps an error as a RecordError
func WrapRecord(field, value string, err error) error {
	if err == nil {
		return nil
	}
	return &RecordError{Field: field, Value: value, Message: err.Error(), Err: err}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Err: err}
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, subject string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, Subject: subject, Err: err}
}

// Helper functions for error checking

// IsSourceUnavailable checks if an error came from the registration API
func IsSourceUnavailable(err error) bool {
	return errors.Is(err, ErrSourceUnavailable)
}

// IsStoreUnavailable checks if an error came from the destination store
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// IsMalformedRecord checks if an error is a record parse failure
func IsMalformedRecord(err error) bool {
	return errors.Is(err, ErrMalformedRecord)
}
