package queue

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a waiting-queue entry. completed and
// cancelled are terminal.
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusCalled    Status = "called"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Action is a requested status transition.
type Action string

const (
	ActionCall     Action = "call"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
)

// Source records how an entry got onto the queue.
type Source string

const (
	SourceWaiting     Source = "waiting"
	SourceAppointment Source = "appointment"
)

// Entry is one patient in a doctor's waiting queue. Entries are never
// physically deleted; removal is a transition to cancelled.
type Entry struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	DoctorID  uuid.UUID `db:"doctor_id" json:"doctor_id"`
	Source    Source    `db:"source" json:"source"`
	Status    Status    `db:"status" json:"status"`
	Priority  int       `db:"priority" json:"priority"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// Joined for display, not stored on the entry itself.
	PatientName string `db:"patient_name" json:"patient_name,omitempty"`
	DoctorName  string `db:"doctor_name" json:"doctor_name,omitempty"`
}

// Transition applies an action to a current status and returns the
// resulting status. An action that would land on the state the entry is
// already in returns AlreadyInStateError so callers can treat it as an
// informational no-op; every other illegal combination returns
// InvalidTransitionError.
func Transition(current Status, action Action) (Status, error) {
	switch action {
	case ActionCall:
		switch current {
		case StatusWaiting:
			return StatusCalled, nil
		case StatusCalled:
			return current, &AlreadyInStateError{Status: current}
		}
	case ActionComplete:
		switch current {
		case StatusCalled:
			return StatusCompleted, nil
		case StatusCompleted:
			return current, &AlreadyInStateError{Status: current}
		case StatusWaiting:
			return current, &InvalidTransitionError{Action: action, From: current, Reason: "call patient before completing"}
		}
	case ActionCancel:
		switch current {
		case StatusWaiting, StatusCalled:
			return StatusCancelled, nil
		}
	default:
		return current, &InvalidTransitionError{Action: action, From: current, Reason: "unknown action"}
	}
	return current, &InvalidTransitionError{Action: action, From: current, Reason: "not allowed from " + string(current)}
}

// AddEntryInput is the payload for putting a patient on a queue.
type AddEntryInput struct {
	PatientID uuid.UUID `json:"patient_id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	Source    Source    `json:"source,omitempty"`
	Priority  int       `json:"priority"`
}

// ActInput is the payload for a status transition request.
type ActInput struct {
	Action Action `json:"action"`
}
