package billing

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func lines(amounts ...float64) []*ChargeLine {
	ls := make([]*ChargeLine, 0, len(amounts))
	for _, a := range amounts {
		ls = append(ls, &ChargeLine{ID: uuid.New(), Amount: a})
	}
	return ls
}

func TestComputeBaseAmount(t *testing.T) {
	if got := ComputeBaseAmount(nil); got != 0 {
		t.Errorf("empty selection: expected 0, got %v", got)
	}
	if got := ComputeBaseAmount(lines(500, 300, 200)); got != 1000 {
		t.Errorf("expected 1000, got %v", got)
	}
}

func TestComputeFinalAmount(t *testing.T) {
	tests := []struct {
		name     string
		base     float64
		discount Discount
		want     float64
		wantErr  bool
	}{
		{"no discount", 1000, Discount{Type: DiscountNone}, 1000, false},
		{"flat discount", 1000, Discount{Type: DiscountFlat, Amount: 200}, 800, false},
		{"percentage discount", 1000, Discount{Type: DiscountPercentage, Amount: 10}, 900, false},
		{"full percentage", 1000, Discount{Type: DiscountPercentage, Amount: 100}, 0, false},
		{"flat exceeding base floors at zero", 500, Discount{Type: DiscountFlat, Amount: 700}, 0, false},
		{"zero flat amount rejected", 1000, Discount{Type: DiscountFlat, Amount: 0}, 0, true},
		{"negative flat amount rejected", 1000, Discount{Type: DiscountFlat, Amount: -50}, 0, true},
		{"percentage over 100 rejected", 500, Discount{Type: DiscountPercentage, Amount: 150}, 0, true},
		{"nonzero amount with none rejected", 1000, Discount{Type: DiscountNone, Amount: 50}, 0, true},
		{"unknown type rejected", 1000, Discount{Type: "seasonal", Amount: 10}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeFinalAmount(tt.base, tt.discount)
			if tt.wantErr {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestComputeBalanceAmount(t *testing.T) {
	if got := ComputeBalanceAmount(900, 300); got != 600 {
		t.Errorf("expected 600, got %v", got)
	}
	if got := ComputeBalanceAmount(900, 900); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
	if got := ComputeBalanceAmount(900, 1000); got != 0 {
		t.Errorf("overpayment: expected balance 0, got %v", got)
	}
}

func TestComputePaymentStatus(t *testing.T) {
	tests := []struct {
		name  string
		final float64
		paid  float64
		want  PaymentStatus
	}{
		{"nothing paid", 900, 0, StatusUnpaid},
		{"partially paid", 900, 300, StatusPartial},
		{"fully paid", 900, 900, StatusPaid},
		{"overpaid clamps to paid", 900, 1000, StatusPaid},
		{"zero final zero paid", 0, 0, StatusUnpaid},
		{"zero final with payment", 0, 100, StatusPaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputePaymentStatus(tt.final, tt.paid); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestApplyDiscountTypeChange(t *testing.T) {
	d := ApplyDiscountTypeChange(Discount{Type: DiscountFlat, Amount: 200}, DiscountNone)
	if d.Type != DiscountNone || d.Amount != 0 {
		t.Errorf("switch to none should zero the amount, got %+v", d)
	}

	d = ApplyDiscountTypeChange(Discount{Type: DiscountFlat, Amount: 200}, DiscountPercentage)
	if d.Type != DiscountPercentage || d.Amount != 200 {
		t.Errorf("switch between types should keep the amount, got %+v", d)
	}
}

func TestRecompute(t *testing.T) {
	r := &ChargeRecord{
		Lines:          lines(600, 400),
		DiscountType:   DiscountPercentage,
		DiscountAmount: 10,
		PaidAmount:     300,
	}
	if err := r.Recompute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.BaseAmount != 1000 {
		t.Errorf("base: expected 1000, got %v", r.BaseAmount)
	}
	if r.FinalAmount != 900 {
		t.Errorf("final: expected 900, got %v", r.FinalAmount)
	}
	if r.BalanceAmount != 600 {
		t.Errorf("balance: expected 600, got %v", r.BalanceAmount)
	}
	if r.PaymentStatus != StatusPartial {
		t.Errorf("status: expected partial, got %s", r.PaymentStatus)
	}
}

func TestRecompute_InvalidDiscount(t *testing.T) {
	r := &ChargeRecord{
		Lines:          lines(500),
		DiscountType:   DiscountPercentage,
		DiscountAmount: 150,
	}
	var verr *ValidationError
	if err := r.Recompute(); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestAggregateLedger(t *testing.T) {
	records := []*ChargeRecord{
		{BaseAmount: 1000, FinalAmount: 800, PaidAmount: 800, BalanceAmount: 0},
		{BaseAmount: 500, FinalAmount: 500, PaidAmount: 200, BalanceAmount: 300},
	}
	s := AggregateLedger(records)
	if s.TotalAmount != 1300 {
		t.Errorf("total: expected 1300, got %v", s.TotalAmount)
	}
	if s.PaidAmount != 1000 {
		t.Errorf("paid: expected 1000, got %v", s.PaidAmount)
	}
	if s.DiscountAmount != 200 {
		t.Errorf("discount: expected 200, got %v", s.DiscountAmount)
	}
	if s.BalanceAmount != 300 {
		t.Errorf("balance: expected 300, got %v", s.BalanceAmount)
	}
}
