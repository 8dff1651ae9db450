package service

import (
	"errors"
	"fmt"
)

// ErrClientClosed indicates the client has been closed.
var ErrClientClosed = errors.New("reqmatch: client is closed")

// Phase names the stage of a matching run that failed.
type Phase string

// Phase values.
const (
	PhaseEmbedding   Phase = "embedding"
	PhaseSearch      Phase = "search"
	PhasePersistence Phase = "persistence"
)

// PhaseError reports which stage of a matching run failed. The requirement
// is already marked failed by the time callers see it.
type PhaseError struct {
	Phase Phase
	Err   error
}

// NewPhaseError creates a PhaseError.
func NewPhaseError(phase Phase, err error) *PhaseError {
	return &PhaseError{Phase: phase, Err: err}
}

// Error implements the error interface.
func (e *PhaseError) Error() string {
	return fmt.Sprintf("matching run failed in %s phase: %v", e.Phase, e.Err)
}

// Unwrap returns the underlying cause.
func (e *PhaseError) Unwrap() error { return e.Err }
