package admission

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TxRunner executes fn inside a database transaction carried on the
// context. The production wiring uses db.WithTx; tests pass fn straight
// through.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	beds       BedRepository
	admissions AdmissionRepository
	inTx       TxRunner
	logger     zerolog.Logger
}

func NewService(beds BedRepository, admissions AdmissionRepository, inTx TxRunner, logger zerolog.Logger) *Service {
	return &Service{beds: beds, admissions: admissions, inTx: inTx, logger: logger}
}

// -- Beds --

func (s *Service) CreateBed(ctx context.Context, b *Bed) error {
	if b.Ward == "" {
		return &ValidationError{Field: "ward", Reason: "is required"}
	}
	if b.Number == "" {
		return &ValidationError{Field: "number", Reason: "is required"}
	}
	b.Occupied = false
	return s.beds.Create(ctx, b)
}

func (s *Service) GetBed(ctx context.Context, id uuid.UUID) (*Bed, error) {
	return s.beds.GetByID(ctx, id)
}

func (s *Service) ListBeds(ctx context.Context, freeOnly bool, limit, offset int) ([]*Bed, int, error) {
	return s.beds.List(ctx, freeOnly, limit, offset)
}

// -- Admissions --

// Admit places a patient in a bed. The bed row is locked for the span of
// the check so two concurrent admissions cannot share a bed.
func (s *Service) Admit(ctx context.Context, in AdmitInput) (*Admission, error) {
	if in.PatientID == uuid.Nil {
		return nil, &ValidationError{Field: "patient_id", Reason: "is required"}
	}
	if in.DoctorID == uuid.Nil {
		return nil, &ValidationError{Field: "doctor_id", Reason: "is required"}
	}
	if in.BedID == uuid.Nil {
		return nil, &ValidationError{Field: "bed_id", Reason: "is required"}
	}

	adm := &Admission{
		PatientID: in.PatientID,
		DoctorID:  in.DoctorID,
		BedID:     in.BedID,
		Reason:    in.Reason,
		Status:    StatusAdmitted,
	}

	err := s.inTx(ctx, func(ctx context.Context) error {
		bed, err := s.beds.GetByIDForUpdate(ctx, in.BedID)
		if err != nil {
			return err
		}
		if bed.Occupied {
			return &BedOccupiedError{BedID: bed.ID}
		}
		if err := s.admissions.Create(ctx, adm); err != nil {
			return err
		}
		return s.beds.SetOccupied(ctx, bed.ID, true)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("admission_id", adm.ID.String()).
		Str("patient_id", adm.PatientID.String()).
		Str("bed_id", adm.BedID.String()).
		Msg("patient admitted")
	return adm, nil
}

// Discharge closes an admission and frees its bed.
func (s *Service) Discharge(ctx context.Context, id uuid.UUID) (*Admission, error) {
	var adm *Admission
	err := s.inTx(ctx, func(ctx context.Context) error {
		var err error
		adm, err = s.admissions.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if adm.Status == StatusDischarged {
			return &AlreadyDischargedError{AdmissionID: adm.ID}
		}
		if err := s.admissions.Discharge(ctx, adm.ID); err != nil {
			return err
		}
		adm.Status = StatusDischarged
		return s.beds.SetOccupied(ctx, adm.BedID, false)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("admission_id", adm.ID.String()).
		Str("bed_id", adm.BedID.String()).
		Msg("patient discharged")
	return adm, nil
}

func (s *Service) GetAdmission(ctx context.Context, id uuid.UUID) (*Admission, error) {
	return s.admissions.GetByID(ctx, id)
}

func (s *Service) ListAdmissions(ctx context.Context, activeOnly bool, limit, offset int) ([]*Admission, int, error) {
	return s.admissions.List(ctx, activeOnly, limit, offset)
}

func (s *Service) ListAdmissionsByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Admission, int, error) {
	return s.admissions.ListByPatient(ctx, patientID, limit, offset)
}
