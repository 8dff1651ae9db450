package matching

import (
	"errors"
	"fmt"
)

// ErrRequirementNotFound indicates the requested requirement does not exist.
var ErrRequirementNotFound = errors.New("requirement not found")

// SearchError wraps a candidate lookup failure. Searchers return it instead
// of a partially populated candidate list.
type SearchError struct {
	Err error
}

// NewSearchError wraps err as a SearchError.
func NewSearchError(err error) *SearchError {
	return &SearchError{Err: err}
}

// Error implements the error interface.
func (e *SearchError) Error() string {
	return fmt.Sprintf("candidate search failed: %v", e.Err)
}

// Unwrap returns the underlying lookup error.
func (e *SearchError) Unwrap() error { return e.Err }
