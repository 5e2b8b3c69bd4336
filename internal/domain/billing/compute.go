package billing

// Pure billing computation. Every derived field is recomputed from its
// source fields on each call; nothing here reads or writes stored state.

// ComputeBaseAmount sums the catalog prices of the selected lines.
// An empty selection yields 0.
func ComputeBaseAmount(lines []*ChargeLine) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.Amount
	}
	return sum
}

// ValidateDiscount checks the discount policy constraints: a non-none
// discount must carry a positive amount, and a percentage discount cannot
// exceed 100.
func ValidateDiscount(d Discount) error {
	switch d.Type {
	case DiscountNone:
		if d.Amount != 0 {
			return &ValidationError{Field: "discount_amount", Reason: "must be 0 when discount type is none"}
		}
	case DiscountFlat:
		if d.Amount <= 0 {
			return &ValidationError{Field: "discount_amount", Reason: "must be greater than 0"}
		}
	case DiscountPercentage:
		if d.Amount <= 0 {
			return &ValidationError{Field: "discount_amount", Reason: "must be greater than 0"}
		}
		if d.Amount > 100 {
			return &ValidationError{Field: "discount_amount", Reason: "percentage cannot exceed 100"}
		}
	default:
		return &ValidationError{Field: "discount_type", Reason: "must be none, flat or percentage"}
	}
	return nil
}

// ComputeFinalAmount applies the discount policy to the base amount,
// flooring the result at zero.
func ComputeFinalAmount(baseAmount float64, d Discount) (float64, error) {
	if err := ValidateDiscount(d); err != nil {
		return 0, err
	}

	final := baseAmount
	switch d.Type {
	case DiscountFlat:
		final = baseAmount - d.Amount
	case DiscountPercentage:
		final = baseAmount - (baseAmount * d.Amount / 100)
	}
	if final < 0 {
		final = 0
	}
	return final, nil
}

// ComputeBalanceAmount returns the amount still owed, floored at zero.
func ComputeBalanceAmount(finalAmount, paidAmount float64) float64 {
	balance := finalAmount - paidAmount
	if balance < 0 {
		return 0
	}
	return balance
}

// ComputePaymentStatus derives the payment status from the two amounts.
// Overpayment clamps to paid rather than failing here; only the
// receive-payment boundary rejects it.
func ComputePaymentStatus(finalAmount, paidAmount float64) PaymentStatus {
	switch {
	case paidAmount == 0:
		return StatusUnpaid
	case paidAmount < finalAmount:
		return StatusPartial
	default:
		return StatusPaid
	}
}

// ApplyDiscountTypeChange switches the discount type. Switching to none
// zeroes the amount; switching between flat and percentage keeps the
// existing amount in place for the user to adjust (the result may not
// validate until they do).
func ApplyDiscountTypeChange(current Discount, newType DiscountType) Discount {
	if newType == DiscountNone {
		return Discount{Type: DiscountNone, Amount: 0}
	}
	return Discount{Type: newType, Amount: current.Amount}
}

// Recompute rederives every derived field of the record from its lines,
// discount and paid amount.
func (r *ChargeRecord) Recompute() error {
	r.BaseAmount = ComputeBaseAmount(r.Lines)
	final, err := ComputeFinalAmount(r.BaseAmount, r.Discount())
	if err != nil {
		return err
	}
	r.FinalAmount = final
	r.BalanceAmount = ComputeBalanceAmount(r.FinalAmount, r.PaidAmount)
	r.PaymentStatus = ComputePaymentStatus(r.FinalAmount, r.PaidAmount)
	return nil
}

// AggregateLedger folds a set of charge records into per-patient totals.
func AggregateLedger(records []*ChargeRecord) LedgerSummary {
	var s LedgerSummary
	for _, r := range records {
		s.TotalAmount += r.FinalAmount
		s.PaidAmount += r.PaidAmount
		s.DiscountAmount += r.BaseAmount - r.FinalAmount
		s.BalanceAmount += r.BalanceAmount
	}
	return s
}
