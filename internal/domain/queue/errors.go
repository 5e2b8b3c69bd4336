package queue

import "fmt"

// ValidationError reports a field-level constraint violation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// InvalidTransitionError reports an action that is not legal from the
// entry's current status.
type InvalidTransitionError struct {
	Action Action
	From   Status
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s from %s: %s", e.Action, e.From, e.Reason)
}

// AlreadyInStateError reports an action whose target state the entry is
// already in. Callers treat it as an informational no-op.
type AlreadyInStateError struct {
	Status Status
}

func (e *AlreadyInStateError) Error() string {
	return fmt.Sprintf("already %s", e.Status)
}
