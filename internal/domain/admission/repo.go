package admission

import (
	"context"

	"github.com/google/uuid"
)

type BedRepository interface {
	Create(ctx context.Context, b *Bed) error
	// GetByIDForUpdate locks the bed row. Callers must hold an ambient
	// transaction.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*Bed, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Bed, error)
	SetOccupied(ctx context.Context, id uuid.UUID, occupied bool) error
	List(ctx context.Context, freeOnly bool, limit, offset int) ([]*Bed, int, error)
}

type AdmissionRepository interface {
	Create(ctx context.Context, a *Admission) error
	GetByID(ctx context.Context, id uuid.UUID) (*Admission, error)
	Discharge(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]*Admission, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Admission, int, error)
}
