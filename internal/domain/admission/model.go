package admission

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Bed is one physical bed in the facility.
type Bed struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Floor     string    `db:"floor" json:"floor"`
	Ward      string    `db:"ward" json:"ward"`
	Room      string    `db:"room" json:"room"`
	Number    string    `db:"number" json:"number"`
	Occupied  bool      `db:"occupied" json:"occupied"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// AdmissionStatus is the lifecycle state of an inpatient stay.
type AdmissionStatus string

const (
	StatusAdmitted   AdmissionStatus = "admitted"
	StatusDischarged AdmissionStatus = "discharged"
)

// Admission is one inpatient stay, tied to the bed it occupies.
type Admission struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	PatientID    uuid.UUID       `db:"patient_id" json:"patient_id"`
	DoctorID     uuid.UUID       `db:"doctor_id" json:"doctor_id"`
	BedID        uuid.UUID       `db:"bed_id" json:"bed_id"`
	Reason       *string         `db:"reason" json:"reason,omitempty"`
	Status       AdmissionStatus `db:"status" json:"status"`
	AdmittedAt   time.Time       `db:"admitted_at" json:"admitted_at"`
	DischargedAt *time.Time      `db:"discharged_at" json:"discharged_at,omitempty"`

	PatientName string `db:"patient_name" json:"patient_name,omitempty"`
	BedLabel    string `db:"bed_label" json:"bed_label,omitempty"`
}

// AdmitInput is the payload for admitting a patient.
type AdmitInput struct {
	PatientID uuid.UUID `json:"patient_id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	BedID     uuid.UUID `json:"bed_id"`
	Reason    *string   `json:"reason,omitempty"`
}

// ValidationError reports a field-level constraint violation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// BedOccupiedError rejects an admission into a bed that is already taken.
type BedOccupiedError struct {
	BedID uuid.UUID
}

func (e *BedOccupiedError) Error() string {
	return fmt.Sprintf("bed %s is already occupied", e.BedID)
}

// AlreadyDischargedError rejects a discharge of a closed admission.
type AlreadyDischargedError struct {
	AdmissionID uuid.UUID
}

func (e *AlreadyDischargedError) Error() string {
	return fmt.Sprintf("admission %s is already discharged", e.AdmissionID)
}
