package encounter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Service struct {
	visits    VisitRepository
	diagnoses DiagnosisRepository
	logger    zerolog.Logger
}

func NewService(visits VisitRepository, diagnoses DiagnosisRepository, logger zerolog.Logger) *Service {
	return &Service{visits: visits, diagnoses: diagnoses, logger: logger}
}

// -- Visits --

func (s *Service) CreateVisit(ctx context.Context, v *Visit) error {
	if v.PatientID == uuid.Nil {
		return &ValidationError{Field: "patient_id", Reason: "is required"}
	}
	if v.DoctorID == uuid.Nil {
		return &ValidationError{Field: "doctor_id", Reason: "is required"}
	}
	if !validCaseTypes[v.CaseType] {
		return &ValidationError{Field: "case_type", Reason: fmt.Sprintf("unknown case type %q", v.CaseType)}
	}
	if !validCaseStatuses[v.CaseStatus] {
		return &ValidationError{Field: "case_status", Reason: fmt.Sprintf("unknown case status %q", v.CaseStatus)}
	}
	if v.VisitedAt.IsZero() {
		v.VisitedAt = time.Now()
	}
	return s.visits.Create(ctx, v)
}

func (s *Service) GetVisit(ctx context.Context, id uuid.UUID) (*Visit, error) {
	return s.visits.GetByID(ctx, id)
}

func (s *Service) UpdateVisit(ctx context.Context, v *Visit) error {
	if !validCaseTypes[v.CaseType] {
		return &ValidationError{Field: "case_type", Reason: fmt.Sprintf("unknown case type %q", v.CaseType)}
	}
	if !validCaseStatuses[v.CaseStatus] {
		return &ValidationError{Field: "case_status", Reason: fmt.Sprintf("unknown case status %q", v.CaseStatus)}
	}
	return s.visits.Update(ctx, v)
}

func (s *Service) ListVisitsByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Visit, int, error) {
	return s.visits.ListByPatient(ctx, patientID, limit, offset)
}

// -- Diagnoses --

func (s *Service) CreateDiagnosis(ctx context.Context, d *Diagnosis) error {
	if d.PatientID == uuid.Nil {
		return &ValidationError{Field: "patient_id", Reason: "is required"}
	}
	if d.DoctorID == uuid.Nil {
		return &ValidationError{Field: "doctor_id", Reason: "is required"}
	}
	if d.Complaint == "" {
		return &ValidationError{Field: "complaint", Reason: "is required"}
	}
	if d.Diagnosis == "" {
		return &ValidationError{Field: "diagnosis", Reason: "is required"}
	}
	if err := s.diagnoses.Create(ctx, d); err != nil {
		return err
	}
	s.logger.Info().
		Str("diagnosis_id", d.ID.String()).
		Str("patient_id", d.PatientID.String()).
		Msg("diagnosis recorded")
	return nil
}

func (s *Service) GetDiagnosis(ctx context.Context, id uuid.UUID) (*Diagnosis, error) {
	return s.diagnoses.GetByID(ctx, id)
}

func (s *Service) ListDiagnosesByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Diagnosis, int, error) {
	return s.diagnoses.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListDiagnosesByVisit(ctx context.Context, visitID uuid.UUID) ([]*Diagnosis, error) {
	return s.diagnoses.ListByVisit(ctx, visitID)
}
