package billing

import (
	"context"

	"github.com/google/uuid"
)

type ChargeMasterRepository interface {
	Create(ctx context.Context, m *ChargeMaster) error
	GetByID(ctx context.Context, id uuid.UUID) (*ChargeMaster, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*ChargeMaster, error)
	Update(ctx context.Context, m *ChargeMaster) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]*ChargeMaster, int, error)
}

type ChargeRepository interface {
	Create(ctx context.Context, r *ChargeRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*ChargeRecord, error)
	Update(ctx context.Context, r *ChargeRecord) error
	List(ctx context.Context, f ChargeFilter, limit, offset int) ([]*ChargeRecord, int, error)
	// ListOpenByPatientForUpdate locks and returns the patient's charges
	// with an outstanding balance, oldest first. Callers must hold an
	// ambient transaction.
	ListOpenByPatientForUpdate(ctx context.Context, patientID uuid.UUID) ([]*ChargeRecord, error)
	LedgerSummaries(ctx context.Context, f ChargeFilter, limit, offset int) ([]*LedgerSummary, int, error)
	LedgerSummaryByPatient(ctx context.Context, patientID uuid.UUID) (*LedgerSummary, error)
}

type ReceiptRepository interface {
	Create(ctx context.Context, p *PaymentReceipt) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*PaymentReceipt, int, error)
}
