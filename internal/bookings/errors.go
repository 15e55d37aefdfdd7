// internal/bookings/errors.go
package bookings

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("booking not found")
	ErrAlreadyCancelled = errors.New("booking already cancelled")
)

// ValidationError reports a rejected input field. No state is mutated when
// one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// ConflictError carries the rule engine's reason for denying a slot. The
// reason is surfaced verbatim to the user.
type ConflictError struct {
	Reason string
}

func (e ConflictError) Error() string {
	return e.Reason
}
