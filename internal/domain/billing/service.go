package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TxRunner executes fn inside a database transaction carried on the
// context. The production wiring uses db.WithTx; tests pass fn straight
// through.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	masters  ChargeMasterRepository
	charges  ChargeRepository
	receipts ReceiptRepository
	inTx     TxRunner
	logger   zerolog.Logger
}

func NewService(masters ChargeMasterRepository, charges ChargeRepository, receipts ReceiptRepository, inTx TxRunner, logger zerolog.Logger) *Service {
	return &Service{masters: masters, charges: charges, receipts: receipts, inTx: inTx, logger: logger}
}

// -- Charge Master --

func (s *Service) CreateChargeMaster(ctx context.Context, m *ChargeMaster) error {
	if m.Name == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if m.Amount <= 0 {
		return &ValidationError{Field: "amount", Reason: "must be greater than 0"}
	}
	m.Active = true
	return s.masters.Create(ctx, m)
}

func (s *Service) GetChargeMaster(ctx context.Context, id uuid.UUID) (*ChargeMaster, error) {
	return s.masters.GetByID(ctx, id)
}

func (s *Service) UpdateChargeMaster(ctx context.Context, m *ChargeMaster) error {
	if m.Name == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if m.Amount <= 0 {
		return &ValidationError{Field: "amount", Reason: "must be greater than 0"}
	}
	return s.masters.Update(ctx, m)
}

// DeactivateChargeMaster retires a catalog item. Existing charge lines
// keep their copied name and amount.
func (s *Service) DeactivateChargeMaster(ctx context.Context, id uuid.UUID) error {
	return s.masters.Deactivate(ctx, id)
}

func (s *Service) ListChargeMasters(ctx context.Context, activeOnly bool, limit, offset int) ([]*ChargeMaster, int, error) {
	return s.masters.List(ctx, activeOnly, limit, offset)
}

// -- Charges --

func validateCaseContext(cc CaseContext) error {
	if !validCaseTypes[cc.CaseType] {
		return &ValidationError{Field: "case_type", Reason: fmt.Sprintf("unknown case type %q", cc.CaseType)}
	}
	if !validCaseStatuses[cc.CaseStatus] {
		return &ValidationError{Field: "case_status", Reason: fmt.Sprintf("unknown case status %q", cc.CaseStatus)}
	}
	return nil
}

// resolveLines turns selected catalog ids into charge lines, copying the
// current catalog name and price onto each line.
func (s *Service) resolveLines(ctx context.Context, ids []uuid.UUID) ([]*ChargeLine, error) {
	masters, err := s.masters.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*ChargeMaster, len(masters))
	for _, m := range masters {
		byID[m.ID] = m
	}
	lines := make([]*ChargeLine, 0, len(ids))
	for _, id := range ids {
		m, ok := byID[id]
		if !ok {
			return nil, &ValidationError{Field: "charges", Reason: fmt.Sprintf("unknown charge %s", id)}
		}
		if !m.Active {
			return nil, &ValidationError{Field: "charges", Reason: fmt.Sprintf("charge %s is inactive", m.Name)}
		}
		lines = append(lines, &ChargeLine{ChargeMasterID: m.ID, Name: m.Name, Amount: m.Amount})
	}
	return lines, nil
}

func (s *Service) CreateCharge(ctx context.Context, in CreateChargeInput) (*ChargeRecord, error) {
	if in.PatientID == uuid.Nil {
		return nil, &ValidationError{Field: "patient_id", Reason: "is required"}
	}
	if len(in.ChargeMasterIDs) == 0 {
		return nil, &ValidationError{Field: "charges", Reason: "at least one charge is required"}
	}
	if in.PaidAmount < 0 {
		return nil, &ValidationError{Field: "paid_amount", Reason: "cannot be negative"}
	}
	if err := validateCaseContext(in.CaseContext); err != nil {
		return nil, err
	}
	if in.DiscountType == "" {
		in.DiscountType = DiscountNone
	}

	lines, err := s.resolveLines(ctx, in.ChargeMasterIDs)
	if err != nil {
		return nil, err
	}

	rec := &ChargeRecord{
		PatientID:      in.PatientID,
		Lines:          lines,
		DiscountType:   in.DiscountType,
		DiscountAmount: in.DiscountAmount,
		PaidAmount:     in.PaidAmount,
		CaseContext:    in.CaseContext,
	}
	if err := rec.Recompute(); err != nil {
		return nil, err
	}
	if err := s.charges.Create(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("charge_id", rec.ID.String()).
		Str("patient_id", rec.PatientID.String()).
		Float64("final_amount", rec.FinalAmount).
		Str("payment_status", string(rec.PaymentStatus)).
		Msg("charge created")
	return rec, nil
}

func (s *Service) GetCharge(ctx context.Context, id uuid.UUID) (*ChargeRecord, error) {
	return s.charges.GetByID(ctx, id)
}

func (s *Service) UpdateCharge(ctx context.Context, id uuid.UUID, in UpdateChargeInput) (*ChargeRecord, error) {
	rec, err := s.charges.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.ChargeMasterIDs != nil {
		if len(*in.ChargeMasterIDs) == 0 {
			return nil, &ValidationError{Field: "charges", Reason: "at least one charge is required"}
		}
		lines, err := s.resolveLines(ctx, *in.ChargeMasterIDs)
		if err != nil {
			return nil, err
		}
		rec.Lines = lines
	}
	if in.DiscountType != nil {
		d := ApplyDiscountTypeChange(rec.Discount(), *in.DiscountType)
		rec.DiscountType = d.Type
		rec.DiscountAmount = d.Amount
	}
	if in.DiscountAmount != nil {
		rec.DiscountAmount = *in.DiscountAmount
	}
	if in.PaidAmount != nil {
		if *in.PaidAmount < 0 {
			return nil, &ValidationError{Field: "paid_amount", Reason: "cannot be negative"}
		}
		rec.PaidAmount = *in.PaidAmount
	}
	if in.CaseType != nil {
		rec.CaseContext.CaseType = *in.CaseType
	}
	if in.CaseStatus != nil {
		rec.CaseContext.CaseStatus = *in.CaseStatus
	}
	if err := validateCaseContext(rec.CaseContext); err != nil {
		return nil, err
	}

	if err := rec.Recompute(); err != nil {
		return nil, err
	}
	if err := s.charges.Update(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) ListCharges(ctx context.Context, f ChargeFilter, limit, offset int) ([]*ChargeRecord, int, error) {
	return s.charges.List(ctx, f, limit, offset)
}

func (s *Service) ListChargesByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*ChargeRecord, int, error) {
	return s.charges.List(ctx, ChargeFilter{PatientID: &patientID}, limit, offset)
}

// -- Payments --

// ReceivePayment applies a payment against the patient's outstanding
// balance, oldest charge first. The whole allocation runs in one
// transaction with the affected rows locked, so concurrent payments for
// the same patient serialize and cannot overdraw the balance.
func (s *Service) ReceivePayment(ctx context.Context, in ReceivePaymentInput, receivedBy string) (*PaymentReceipt, error) {
	if in.PatientID == uuid.Nil {
		return nil, &ValidationError{Field: "patient_id", Reason: "is required"}
	}
	if in.Amount <= 0 {
		return nil, &ValidationError{Field: "amount", Reason: "must be greater than 0"}
	}
	if !validPaymentModes[in.PaymentMode] {
		return nil, &ValidationError{Field: "payment_mode", Reason: fmt.Sprintf("unknown payment mode %q", in.PaymentMode)}
	}

	receipt := &PaymentReceipt{
		PatientID:   in.PatientID,
		Amount:      in.Amount,
		PaymentMode: in.PaymentMode,
		Note:        in.Note,
	}
	if receivedBy != "" {
		receipt.ReceivedBy = &receivedBy
	}

	err := s.inTx(ctx, func(ctx context.Context) error {
		open, err := s.charges.ListOpenByPatientForUpdate(ctx, in.PatientID)
		if err != nil {
			return err
		}

		var outstanding float64
		for _, c := range open {
			outstanding += c.BalanceAmount
		}
		if in.Amount > outstanding {
			return &PaymentExceedsBalanceError{Amount: in.Amount, Balance: outstanding}
		}

		remaining := in.Amount
		for _, c := range open {
			if remaining <= 0 {
				break
			}
			applied := c.BalanceAmount
			if applied > remaining {
				applied = remaining
			}
			c.PaidAmount += applied
			remaining -= applied
			if err := c.Recompute(); err != nil {
				return err
			}
			if err := s.charges.Update(ctx, c); err != nil {
				return err
			}
		}

		return s.receipts.Create(ctx, receipt)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("patient_id", in.PatientID.String()).
		Float64("amount", in.Amount).
		Str("payment_mode", in.PaymentMode).
		Msg("payment received")
	return receipt, nil
}

func (s *Service) PaymentHistory(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*PaymentReceipt, int, error) {
	return s.receipts.ListByPatient(ctx, patientID, limit, offset)
}

// -- Ledger --

func (s *Service) Ledger(ctx context.Context, f ChargeFilter, limit, offset int) ([]*LedgerSummary, int, error) {
	return s.charges.LedgerSummaries(ctx, f, limit, offset)
}

func (s *Service) LedgerByPatient(ctx context.Context, patientID uuid.UUID) (*LedgerSummary, error) {
	return s.charges.LedgerSummaryByPatient(ctx, patientID)
}
