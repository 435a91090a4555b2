package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed reports a source whose content cannot be read as a catalog.
	ErrMalformed = errors.New("malformed catalog source")
	// ErrUnreachable reports a source that could not be opened or fetched.
	ErrUnreachable = errors.New("catalog source unreachable")
)

// LoadError is returned when the catalog cannot be built. It is not fatal:
// the caller receives an empty catalog alongside it.
type LoadError struct {
	Source string
	Err    error
}

// Error implements the error interface
func (e *LoadError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("loading catalog: %v", e.Err)
	}
	return fmt.Sprintf("loading catalog from %s: %v", e.Source, e.Err)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error { return e.Err }
