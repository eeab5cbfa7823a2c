package model

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is matched by every ConfigurationError.
var ErrInvalidConfiguration = errors.New("model: invalid configuration")

// ConfigurationError names the field that failed validation.
type ConfigurationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("model: invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidConfiguration
}

func invalid(field string, value any, reason string) error {
	return &ConfigurationError{Field: field, Value: value, Reason: reason}
}
