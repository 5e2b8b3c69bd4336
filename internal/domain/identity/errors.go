package identity

import (
	"errors"
	"fmt"
)

// ErrInvalidCredentials is returned for any failed login attempt. The
// message never distinguishes a missing account from a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ValidationError reports a field-level constraint violation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}
