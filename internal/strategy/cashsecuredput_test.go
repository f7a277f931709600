package strategy

import (
	"math"
	"reflect"
	"testing"
	"time"

	"options-journal/internal/errors"
	"options-journal/internal/risk"
)

func validCashSecuredPut(t *testing.T) *CashSecuredPut {
	t.Helper()
	csp, err := NewCashSecuredPut(CashSecuredPutInputs{
		Symbol:     "ACME",
		Strike:     50,
		SharePrice: 52,
		Premium:    100,
		Fee:        0.65,
		Contracts:  1,
		Expiration: expFeb16,
		AsOf:       asOfJan15,
	})
	if err != nil {
		t.Fatalf("NewCashSecuredPut: %v", err)
	}
	return csp
}

func TestCashSecuredPutMetricsFormulas(t *testing.T) {
	csp := validCashSecuredPut(t)

	if got := csp.Breakeven(); got != 49.01 {
		t.Errorf("Breakeven = %v, want 49.01", got)
	}
	if got := csp.MaxProfit(); math.Abs(got-99.35) > 1e-9 {
		t.Errorf("MaxProfit = %v, want 99.35", got)
	}
	if got := csp.MaxLoss(); math.Abs(got-4900.65) > 1e-9 {
		t.Errorf("MaxLoss = %v, want 4900.65", got)
	}
	if got := csp.CollateralRequired(); got != 5000 {
		t.Errorf("CollateralRequired = %v, want 5000 (strike x shares)", got)
	}
	if got := csp.ReturnOnOutlay(); got != 1.99 {
		t.Errorf("ReturnOnOutlay = %v, want 1.99", got)
	}
	if csp.IsInTheMoney() {
		t.Errorf("put should be OTM with the underlying above the strike")
	}
}

func TestCashSecuredPutExplicitCollateral(t *testing.T) {
	csp, err := NewCashSecuredPut(CashSecuredPutInputs{
		Symbol:      "ACME",
		Strike:      50,
		SharePrice:  52,
		Premium:     100,
		Fee:         0.65,
		CashSecured: 4500,
		Contracts:   1,
		Expiration:  expFeb16,
		AsOf:        asOfJan15,
	})
	if err != nil {
		t.Fatalf("NewCashSecuredPut: %v", err)
	}
	if got := csp.CollateralRequired(); got != 4500 {
		t.Errorf("CollateralRequired = %v, want the explicit 4500", got)
	}
	if got := csp.ReturnOnOutlay(); got != 2.21 {
		t.Errorf("ReturnOnOutlay = %v, want 2.21 on 4500 collateral", got)
	}
}

func TestCashSecuredPutExpirationPnLContinuity(t *testing.T) {
	csp := validCashSecuredPut(t)

	// At or above the strike the put expires worthless: full net premium.
	if got, want := csp.ExpirationPnL(50), csp.MaxProfit(); got != want {
		t.Errorf("ExpirationPnL(strike) = %v, want MaxProfit %v", got, want)
	}
	if got, want := csp.ExpirationPnL(60), csp.MaxProfit(); got != want {
		t.Errorf("ExpirationPnL above strike = %v, want MaxProfit %v", got, want)
	}
	// Assigned below the strike.
	want := 99.35 - (50.0-45.0)*100
	if got := csp.ExpirationPnL(45); math.Abs(got-want) > 1e-9 {
		t.Errorf("ExpirationPnL(45) = %v, want %v", got, want)
	}
	// Stock to zero is the documented max loss.
	if got := csp.ExpirationPnL(0); math.Abs(got-(-csp.MaxLoss())) > 1e-9 {
		t.Errorf("ExpirationPnL(0) = %v, want -MaxLoss %v", got, -csp.MaxLoss())
	}
}

func TestCashSecuredPutDeepITMAssignmentFlag(t *testing.T) {
	// Three days out, deep in the money, premium small next to intrinsic:
	// the analyzer must raise an assignment flag.
	csp, err := NewCashSecuredPut(CashSecuredPutInputs{
		Symbol:     "ACME",
		Strike:     100,
		SharePrice: 70,
		Premium:    150,
		Fee:        0,
		Contracts:  1,
		Expiration: time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC),
		AsOf:       time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("NewCashSecuredPut: %v", err)
	}

	if !csp.IsInTheMoney() {
		t.Fatalf("put at 100 with the underlying at 70 should be ITM")
	}
	if got := csp.IntrinsicValue(); got != 3000 {
		t.Fatalf("IntrinsicValue = %v, want 3000", got)
	}
	if !csp.IsLikelyAssignment() {
		t.Errorf("expected a likely assignment")
	}

	flags := csp.RiskFlags()
	var assignment *risk.Flag
	for i := range flags {
		if flags[i].Category == risk.CategoryAssignment {
			assignment = &flags[i]
			break
		}
	}
	if assignment == nil {
		t.Fatalf("expected an assignment risk flag, got %v", flags)
	}
	if assignment.Severity != risk.SeverityHigh {
		t.Errorf("assignment severity = %s, want high", assignment.Severity)
	}
}

func TestCashSecuredPutMetricsIdempotent(t *testing.T) {
	csp := validCashSecuredPut(t)
	if !reflect.DeepEqual(csp.Metrics(), csp.Metrics()) {
		t.Errorf("Metrics not idempotent")
	}
}

func TestCashSecuredPutValidation(t *testing.T) {
	base := CashSecuredPutInputs{
		Symbol:     "ACME",
		Strike:     50,
		SharePrice: 52,
		Premium:    100,
		Fee:        0.65,
		Contracts:  1,
		Expiration: expFeb16,
		AsOf:       asOfJan15,
	}

	tests := []struct {
		name   string
		mutate func(*CashSecuredPutInputs)
	}{
		{"zero strike", func(in *CashSecuredPutInputs) { in.Strike = 0 }},
		{"zero share price", func(in *CashSecuredPutInputs) { in.SharePrice = 0 }},
		{"negative contracts", func(in *CashSecuredPutInputs) { in.Contracts = -1 }},
		{"negative fee", func(in *CashSecuredPutInputs) { in.Fee = -1 }},
		{"negative collateral", func(in *CashSecuredPutInputs) { in.CashSecured = -100 }},
		{"stale expiration", func(in *CashSecuredPutInputs) { in.Expiration = asOfJan15 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mutate(&in)
			if _, err := NewCashSecuredPut(in); err == nil {
				t.Fatalf("expected validation error")
			} else {
				var verr *errors.ValidationError
				if !errors.As(err, &verr) {
					t.Errorf("error type = %T, want *errors.ValidationError", err)
				}
			}
		})
	}
}
