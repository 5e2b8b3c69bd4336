package billing

import "fmt"

// ValidationError reports a field-level constraint violation. Handlers map
// it to a 400 so the client can surface it inline on the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// PaymentExceedsBalanceError rejects a payment larger than the patient's
// outstanding balance. No partial state change occurs.
type PaymentExceedsBalanceError struct {
	Amount  float64
	Balance float64
}

func (e *PaymentExceedsBalanceError) Error() string {
	return fmt.Sprintf("payment of %.2f exceeds outstanding balance of %.2f", e.Amount, e.Balance)
}
