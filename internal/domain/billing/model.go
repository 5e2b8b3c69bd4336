package billing

import (
	"time"

	"github.com/google/uuid"
)

// DiscountType selects how a discount amount is interpreted.
type DiscountType string

const (
	DiscountNone       DiscountType = "none"
	DiscountFlat       DiscountType = "flat"
	DiscountPercentage DiscountType = "percentage"
)

// PaymentStatus summarizes the paid/final relationship of a charge record.
// It is always derived, never stored independently of a recompute.
type PaymentStatus string

const (
	StatusUnpaid  PaymentStatus = "unpaid"
	StatusPartial PaymentStatus = "partial"
	StatusPaid    PaymentStatus = "paid"
)

var validPaymentModes = map[string]bool{
	"cash": true, "upi": true, "card": true, "bank": true,
}

var validCaseTypes = map[string]bool{
	"opd": true, "ipd": true, "emergency": true, "appointment": true, "lab": true,
}

var validCaseStatuses = map[string]bool{
	"new": true, "old": true, "followup": true, "emergency": true,
}

// Discount is the discount policy applied to a charge record.
type Discount struct {
	Type   DiscountType `json:"type"`
	Amount float64      `json:"amount"`
}

// CaseContext classifies the clinical episode a charge belongs to.
type CaseContext struct {
	CaseType   string `db:"case_type" json:"case_type"`
	CaseStatus string `db:"case_status" json:"case_status"`
}

// ChargeMaster is a priced service/item in the catalog.
type ChargeMaster struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Amount    float64   `db:"amount" json:"amount"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ChargeLine is one selected catalog item on a charge record. Name and
// amount are copied from the catalog at selection time so later catalog
// edits do not rewrite history.
type ChargeLine struct {
	ID             uuid.UUID `db:"id" json:"id"`
	ChargeID       uuid.UUID `db:"charge_id" json:"charge_id"`
	ChargeMasterID uuid.UUID `db:"charge_master_id" json:"charge_master_id"`
	Name           string    `db:"name" json:"name"`
	Amount         float64   `db:"amount" json:"amount"`
}

// ChargeRecord is the aggregate root for one billing transaction.
// BaseAmount, FinalAmount, BalanceAmount and PaymentStatus are derived
// fields, recomputed from the lines, discount and paid amount on every
// write; they are never accepted from a client.
type ChargeRecord struct {
	ID             uuid.UUID     `db:"id" json:"id"`
	PatientID      uuid.UUID     `db:"patient_id" json:"patient_id"`
	Lines          []*ChargeLine `json:"lines"`
	BaseAmount     float64       `db:"base_amount" json:"base_amount"`
	DiscountType   DiscountType  `db:"discount_type" json:"discount_type"`
	DiscountAmount float64       `db:"discount_amount" json:"discount_amount"`
	FinalAmount    float64       `db:"final_amount" json:"final_amount"`
	PaidAmount     float64       `db:"paid_amount" json:"paid_amount"`
	BalanceAmount  float64       `db:"balance_amount" json:"balance_amount"`
	PaymentStatus  PaymentStatus `db:"payment_status" json:"payment_status"`
	CaseContext    CaseContext   `json:"case_context"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updated_at"`
}

// Discount returns the record's discount policy.
func (r *ChargeRecord) Discount() Discount {
	return Discount{Type: r.DiscountType, Amount: r.DiscountAmount}
}

// PaymentReceipt records one payment event against a patient's outstanding
// balance. Receipts are immutable once created.
type PaymentReceipt struct {
	ID          uuid.UUID `db:"id" json:"id"`
	PatientID   uuid.UUID `db:"patient_id" json:"patient_id"`
	Amount      float64   `db:"amount" json:"amount"`
	PaymentMode string    `db:"payment_mode" json:"payment_mode"`
	Note        *string   `db:"note" json:"note,omitempty"`
	ReceivedBy  *string   `db:"received_by" json:"received_by,omitempty"`
	ReceivedAt  time.Time `db:"received_at" json:"received_at"`
}

// LedgerSummary is the per-patient aggregation shown on ledger screens.
type LedgerSummary struct {
	PatientID      uuid.UUID `db:"patient_id" json:"patient_id"`
	PatientName    string    `db:"patient_name" json:"patient_name"`
	TotalAmount    float64   `db:"total_amount" json:"total_amount"`
	PaidAmount     float64   `db:"paid_amount" json:"paid_amount"`
	DiscountAmount float64   `db:"discount_amount" json:"discount_amount"`
	BalanceAmount  float64   `db:"balance_amount" json:"balance_amount"`
}

// CreateChargeInput is the payload for creating or updating a charge.
type CreateChargeInput struct {
	PatientID       uuid.UUID    `json:"patient_id"`
	ChargeMasterIDs []uuid.UUID  `json:"charges"`
	DiscountType    DiscountType `json:"discount_type"`
	DiscountAmount  float64      `json:"discount_amount"`
	PaidAmount      float64      `json:"paid_amount"`
	CaseContext     CaseContext  `json:"case_context"`
}

// UpdateChargeInput is the partial-update payload for an existing charge.
// Nil fields are left unchanged; derived fields are recomputed either way.
type UpdateChargeInput struct {
	ChargeMasterIDs *[]uuid.UUID  `json:"charges,omitempty"`
	DiscountType    *DiscountType `json:"discount_type,omitempty"`
	DiscountAmount  *float64      `json:"discount_amount,omitempty"`
	PaidAmount      *float64      `json:"paid_amount,omitempty"`
	CaseType        *string       `json:"case_type,omitempty"`
	CaseStatus      *string       `json:"case_status,omitempty"`
}

// ChargeFilter narrows charge and ledger listings. Zero values mean no
// filtering on that field.
type ChargeFilter struct {
	PatientID *uuid.UUID
	CaseType  string
	From      time.Time
	To        time.Time
}

// ReceivePaymentInput is the payload for applying a payment to a patient's
// outstanding balance.
type ReceivePaymentInput struct {
	PatientID   uuid.UUID `json:"patient_id"`
	Amount      float64   `json:"amount"`
	PaymentMode string    `json:"payment_mode"`
	Note        *string   `json:"note,omitempty"`
}
