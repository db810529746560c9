package settlement

import (
	"errors"
	"fmt"
)

// ErrValidation matches any *ValidationError with errors.Is.
var ErrValidation = errors.New("invalid settlement input")

// ValidationError reports the first malformed input found. Field names the
// offending input, e.g. "entries[1].quantity" or "adjustments.sales_tax_rate".
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
