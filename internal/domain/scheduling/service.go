package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Waitlister is the narrow surface of the waiting queue that scheduling
// needs: a booked patient can be placed straight onto the doctor's queue.
type Waitlister interface {
	Enqueue(ctx context.Context, patientID, doctorID uuid.UUID) error
}

type Service struct {
	appointments Repository
	waitlist     Waitlister
	logger       zerolog.Logger
}

func NewService(appointments Repository, waitlist Waitlister, logger zerolog.Logger) *Service {
	return &Service{appointments: appointments, waitlist: waitlist, logger: logger}
}

func (s *Service) Create(ctx context.Context, in CreateAppointmentInput) (*Appointment, error) {
	if in.PatientID == uuid.Nil {
		return nil, &ValidationError{Field: "patient_id", Reason: "is required"}
	}
	if in.DoctorID == uuid.Nil {
		return nil, &ValidationError{Field: "doctor_id", Reason: "is required"}
	}
	if in.ScheduledAt.IsZero() {
		return nil, &ValidationError{Field: "scheduled_at", Reason: "is required"}
	}

	a := &Appointment{
		PatientID:   in.PatientID,
		DoctorID:    in.DoctorID,
		ScheduledAt: in.ScheduledAt,
		Reason:      in.Reason,
		Status:      StatusScheduled,
	}
	if err := s.appointments.Create(ctx, a); err != nil {
		return nil, err
	}

	if in.AddToQueue && s.waitlist != nil {
		if err := s.waitlist.Enqueue(ctx, in.PatientID, in.DoctorID); err != nil {
			// The appointment stands even if queueing fails; the front
			// desk can add the patient manually.
			s.logger.Warn().Err(err).
				Str("appointment_id", a.ID.String()).
				Msg("could not enqueue appointment patient")
		}
	}

	s.logger.Info().
		Str("appointment_id", a.ID.String()).
		Str("doctor_id", a.DoctorID.String()).
		Time("scheduled_at", a.ScheduledAt).
		Msg("appointment booked")
	return a, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

func (s *Service) setStatus(ctx context.Context, id uuid.UUID, status AppointmentStatus) (*Appointment, error) {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != StatusScheduled {
		return nil, &TerminalStatusError{Status: a.Status}
	}
	if err := s.appointments.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	a.Status = status
	return a, nil
}

func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.setStatus(ctx, id, StatusCompleted)
}

func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.setStatus(ctx, id, StatusCancelled)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.List(ctx, limit, offset)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID, from, to time.Time, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.ListByDoctor(ctx, doctorID, from, to, limit, offset)
}
