package submission

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrInvalidTransition  = errors.New("transition not allowed from the current stage")
	ErrInvalidReference   = errors.New("transaction reference must be at least 12 characters")
	ErrPaymentNotVerified = errors.New("payment could not be verified")
	ErrPaymentUnavailable = errors.New("payment service unavailable")
	ErrNotFound           = errors.New("draft not found")
	ErrForbidden          = errors.New("forbidden")
)

// FieldErrors maps a form field (by its JSON name) to the message shown next to it.
type FieldErrors map[string]string

// ValidationError blocks the form → payment transition.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "invalid submission: " + strings.Join(keys, ", ")
}
