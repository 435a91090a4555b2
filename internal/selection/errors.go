package selection

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNothingPending is returned by Commit when no pathology has been chosen.
var ErrNothingPending = errors.New("no pathology selected")

// ValidationError is returned by Commit when the pending pathology lacks
// required attributes. The wizard state is left as it was.
type ValidationError struct {
	Pathology string
	Missing   []Attribute
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	names := make([]string, len(e.Missing))
	for i, a := range e.Missing {
		names[i] = string(a)
	}
	return fmt.Sprintf("%s requires %s", e.Pathology, strings.Join(names, ", "))
}

// IsMissing reports whether attr is among the missing attributes.
func (e *ValidationError) IsMissing(attr Attribute) bool {
	for _, a := range e.Missing {
		if a == attr {
			return true
		}
	}
	return false
}
