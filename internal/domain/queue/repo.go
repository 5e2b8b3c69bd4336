package queue

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, e *Entry) error
	GetByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	List(ctx context.Context, limit, offset int) ([]*Entry, int, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Entry, int, error)
	// HasActiveEntry reports whether the patient already has a
	// non-terminal entry on the doctor's queue.
	HasActiveEntry(ctx context.Context, patientID, doctorID uuid.UUID) (bool, error)
}
