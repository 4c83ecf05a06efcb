package config

import (
	"errors"
	"fmt"

	"github.com/dshills/ripple/internal/config/loader"
)

// Errors returned by configuration operations.
var (
	// ErrFileNotFound indicates an explicitly requested config file is missing.
	ErrFileNotFound = errors.New("config file not found")

	// ErrValidationFailed indicates a setting has an invalid value.
	ErrValidationFailed = errors.New("validation failed")
)

// ParseError is returned for malformed config files.
type ParseError = loader.ParseError

// ValidationError describes an invalid setting.
type ValidationError struct {
	// Path is the dotted setting path, for example "editor.tab_width".
	Path string
	// Value is the offending value.
	Value any
	// Message describes the constraint.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s = %v: %s", e.Path, e.Value, e.Message)
}

// Unwrap lets errors.Is match ErrValidationFailed.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
