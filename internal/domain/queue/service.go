package queue

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Service struct {
	entries Repository
	logger  zerolog.Logger
}

func NewService(entries Repository, logger zerolog.Logger) *Service {
	return &Service{entries: entries, logger: logger}
}

// Add puts a patient on a doctor's queue in the waiting state. A patient
// with a non-terminal entry on the same queue cannot be added twice.
func (s *Service) Add(ctx context.Context, in AddEntryInput) (*Entry, error) {
	if in.PatientID == uuid.Nil {
		return nil, &ValidationError{Field: "patient_id", Reason: "is required"}
	}
	if in.DoctorID == uuid.Nil {
		return nil, &ValidationError{Field: "doctor_id", Reason: "is required"}
	}
	if in.Priority < 0 {
		return nil, &ValidationError{Field: "priority", Reason: "cannot be negative"}
	}
	if in.Source == "" {
		in.Source = SourceWaiting
	}
	if in.Source != SourceWaiting && in.Source != SourceAppointment {
		return nil, &ValidationError{Field: "source", Reason: "must be waiting or appointment"}
	}

	active, err := s.entries.HasActiveEntry(ctx, in.PatientID, in.DoctorID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, &ValidationError{Field: "patient_id", Reason: "patient is already on this doctor's queue"}
	}

	e := &Entry{
		PatientID: in.PatientID,
		DoctorID:  in.DoctorID,
		Source:    in.Source,
		Status:    StatusWaiting,
		Priority:  in.Priority,
	}
	if err := s.entries.Create(ctx, e); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("entry_id", e.ID.String()).
		Str("patient_id", e.PatientID.String()).
		Str("doctor_id", e.DoctorID.String()).
		Str("source", string(e.Source)).
		Msg("patient queued")
	return e, nil
}

// Act applies a transition to an entry. An action whose target state the
// entry already occupies is an informational no-op; the stored status is
// left untouched and the entry is returned as is.
func (s *Service) Act(ctx context.Context, id uuid.UUID, action Action) (*Entry, error) {
	e, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next, terr := Transition(e.Status, action)
	if terr != nil {
		var already *AlreadyInStateError
		if errors.As(terr, &already) {
			s.logger.Info().
				Str("entry_id", e.ID.String()).
				Str("action", string(action)).
				Str("status", string(e.Status)).
				Msg("queue entry already in target state")
			return e, terr
		}
		s.logger.Warn().
			Str("entry_id", e.ID.String()).
			Str("action", string(action)).
			Str("status", string(e.Status)).
			Msg("illegal queue transition rejected")
		return nil, terr
	}

	if err := s.entries.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	e.Status = next

	s.logger.Info().
		Str("entry_id", e.ID.String()).
		Str("action", string(action)).
		Str("status", string(next)).
		Msg("queue entry transitioned")
	return e, nil
}

// Remove takes an entry off the queue by cancelling it. The row is kept.
func (s *Service) Remove(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return s.Act(ctx, id, ActionCancel)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return s.entries.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Entry, int, error) {
	return s.entries.List(ctx, limit, offset)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Entry, int, error) {
	return s.entries.ListByDoctor(ctx, doctorID, limit, offset)
}
