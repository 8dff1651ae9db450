package embedding

import (
	"errors"
	"fmt"
	"strings"
)

// Configuration resolution failures.
var (
	// ErrNoActiveConfig indicates no active model configuration exists.
	ErrNoActiveConfig = errors.New("no active embedding model configuration found")

	// ErrConfigNotFound indicates the requested configuration does not exist.
	ErrConfigNotFound = errors.New("embedding model configuration not found")
)

// ErrDimensionMismatch indicates a provider returned vectors whose length
// does not equal the configured dimension. Usually a misconfigured dimension
// or the wrong upstream model, so retrying cannot help.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// UnsupportedKindError indicates a configuration names a provider kind with
// no registered constructor.
type UnsupportedKindError struct {
	Kind  Kind
	Known []Kind
}

// Error implements the error interface.
func (e *UnsupportedKindError) Error() string {
	known := make([]string, len(e.Known))
	for i, k := range e.Known {
		known[i] = string(k)
	}
	return fmt.Sprintf("unsupported provider kind %q (known kinds: %s)", e.Kind, strings.Join(known, ", "))
}

// ProviderError wraps an upstream embedding failure. The message never
// contains credentials; StatusCode is zero for non-HTTP failures.
type ProviderError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

// NewProviderError creates a ProviderError.
func NewProviderError(op string, statusCode int, message string, err error) *ProviderError {
	return &ProviderError{Op: op, StatusCode: statusCode, Message: message, Err: err}
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %s failed (status %d): %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider %s failed: %s", e.Op, e.Message)
}

// Unwrap returns the upstream cause.
func (e *ProviderError) Unwrap() error { return e.Err }
