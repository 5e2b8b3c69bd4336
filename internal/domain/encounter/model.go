package encounter

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

var validCaseTypes = map[string]bool{
	"opd": true, "ipd": true, "emergency": true, "appointment": true, "lab": true,
}

var validCaseStatuses = map[string]bool{
	"new": true, "old": true, "followup": true, "emergency": true,
}

// Visit is one clinical encounter with a patient.
type Visit struct {
	ID         uuid.UUID `db:"id" json:"id"`
	PatientID  uuid.UUID `db:"patient_id" json:"patient_id"`
	DoctorID   uuid.UUID `db:"doctor_id" json:"doctor_id"`
	CaseType   string    `db:"case_type" json:"case_type"`
	CaseStatus string    `db:"case_status" json:"case_status"`
	VisitedAt  time.Time `db:"visited_at" json:"visited_at"`
	Notes      *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Diagnosis is the clinical outcome recorded for a visit.
type Diagnosis struct {
	ID           uuid.UUID `db:"id" json:"id"`
	VisitID      uuid.UUID `db:"visit_id" json:"visit_id"`
	PatientID    uuid.UUID `db:"patient_id" json:"patient_id"`
	DoctorID     uuid.UUID `db:"doctor_id" json:"doctor_id"`
	Complaint    string    `db:"complaint" json:"complaint"`
	Diagnosis    string    `db:"diagnosis" json:"diagnosis"`
	Prescription *string   `db:"prescription" json:"prescription,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// ValidationError reports a field-level constraint violation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}
