package strategy

import (
	"math"
	"reflect"
	"testing"
	"time"

	"options-journal/internal/errors"
	"options-journal/internal/mathutil"
)

func validLongCall(t *testing.T) *LongCall {
	t.Helper()
	lc, err := NewLongCall(LongCallInputs{
		Symbol:         "ACME",
		Strike:         100,
		SharePrice:     103,
		Premium:        450,
		Fee:            0.65,
		CurrentPremium: 520,
		Contracts:      1,
		Expiration:     expFeb16,
		AsOf:           asOfJan15,
	})
	if err != nil {
		t.Fatalf("NewLongCall: %v", err)
	}
	return lc
}

func TestLongCallBoundaryScenario(t *testing.T) {
	lc := validLongCall(t)

	if got := lc.IntrinsicValue(); got != 3.00 {
		t.Errorf("IntrinsicValue = %v, want 3.00 per share", got)
	}
	if got := lc.UnrealizedPnL(); got != 69.35 {
		t.Errorf("UnrealizedPnL = %v, want 69.35", got)
	}
	if got := lc.Classification(); got != ClassITM {
		t.Errorf("Classification = %q, want %q", got, ClassITM)
	}
	if got := lc.Moneyness(); got != 3.00 {
		t.Errorf("Moneyness = %v, want 3.00", got)
	}
	if got := lc.Breakeven(); got != 104.51 {
		t.Errorf("Breakeven = %v, want 104.51", got)
	}
	if got := lc.MaxLoss(); math.Abs(got-450.65) > 1e-9 {
		t.Errorf("MaxLoss = %v, want 450.65", got)
	}
}

func TestLongCallUnboundedMaxProfit(t *testing.T) {
	lc := validLongCall(t)

	// Unbounded upside is reported as the +Inf sentinel, not an error.
	if got := lc.MaxProfit(); !math.IsInf(got, 1) {
		t.Errorf("MaxProfit = %v, want +Inf", got)
	}
}

func TestLongCallClassificationBuckets(t *testing.T) {
	tests := []struct {
		sharePrice float64
		want       string
	}{
		{115, ClassDeepITM}, // +15%
		{110, ClassDeepITM}, // boundary
		{103, ClassITM},     // +3%
		{102, ClassITM},     // boundary
		{100, ClassATM},
		{101, ClassATM}, // +1%
		{99, ClassATM},  // -1%
		{95, ClassOTM},  // -5%
		{85, ClassDeepOTM},
	}
	for _, tt := range tests {
		lc, err := NewLongCall(LongCallInputs{
			Symbol:         "ACME",
			Strike:         100,
			SharePrice:     tt.sharePrice,
			Premium:        450,
			Fee:            0.65,
			CurrentPremium: 520,
			Contracts:      1,
			Expiration:     expFeb16,
			AsOf:           asOfJan15,
		})
		if err != nil {
			t.Fatalf("NewLongCall at %v: %v", tt.sharePrice, err)
		}
		if got := lc.Classification(); got != tt.want {
			t.Errorf("price %v: Classification = %q, want %q", tt.sharePrice, got, tt.want)
		}
	}
}

func TestLongCallITMProbability(t *testing.T) {
	// ITM at +3% moneyness, no decay penalty: 50 + 2*3 = 56.
	lc := validLongCall(t)
	if got := lc.ITMProbability(); got != 56.0 {
		t.Errorf("ITMProbability = %v, want 56.0", got)
	}

	// OTM at -5% with 10 days left: 50 - 10 - 20*(30-10)/30 = 26.7.
	otm, err := NewLongCall(LongCallInputs{
		Symbol:         "ACME",
		Strike:         100,
		SharePrice:     95,
		Premium:        450,
		Fee:            0.65,
		CurrentPremium: 120,
		Contracts:      1,
		Expiration:     time.Date(2024, time.February, 16, 0, 0, 0, 0, time.UTC),
		AsOf:           time.Date(2024, time.February, 6, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("NewLongCall: %v", err)
	}
	if got := otm.ITMProbability(); got != 26.7 {
		t.Errorf("OTM ITMProbability = %v, want 26.7", got)
	}

	// Far-dated OTM takes no decay penalty.
	farOTM, err := NewLongCall(LongCallInputs{
		Symbol:         "ACME",
		Strike:         100,
		SharePrice:     95,
		Premium:        450,
		Fee:            0.65,
		CurrentPremium: 120,
		Contracts:      1,
		Expiration:     time.Date(2024, time.June, 21, 0, 0, 0, 0, time.UTC),
		AsOf:           time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("NewLongCall: %v", err)
	}
	if got := farOTM.ITMProbability(); got != 40.0 {
		t.Errorf("far OTM ITMProbability = %v, want 40.0", got)
	}
}

func TestLongCallExpirationPnL(t *testing.T) {
	lc := validLongCall(t)

	if got := lc.ExpirationPnL(100); math.Abs(got-(-450.65)) > 1e-9 {
		t.Errorf("ExpirationPnL(100) = %v, want -450.65 (full cost basis)", got)
	}
	if got := lc.ExpirationPnL(90); math.Abs(got-(-450.65)) > 1e-9 {
		t.Errorf("ExpirationPnL(90) = %v, want -450.65 (loss is capped)", got)
	}
	want := (110.0-100.0)*100 - 450.65
	if got := lc.ExpirationPnL(110); math.Abs(got-want) > 1e-9 {
		t.Errorf("ExpirationPnL(110) = %v, want %v", got, want)
	}
}

func TestLongCallLeverageRatio(t *testing.T) {
	lc := validLongCall(t)

	// 100 shares at 103 controlled for a 450.65 outlay.
	want := mathutil.RoundTo(103*100/450.65, 2)
	if got := lc.LeverageRatio(); got != want {
		t.Errorf("LeverageRatio = %v, want %v", got, want)
	}
}

func TestLongCallMetricsIdempotent(t *testing.T) {
	lc := validLongCall(t)
	if !reflect.DeepEqual(lc.Metrics(), lc.Metrics()) {
		t.Errorf("Metrics not idempotent")
	}
}

func TestLongCallPayoffChartTolerance(t *testing.T) {
	lc := validLongCall(t)

	// Long-option charts use a 0.01 tolerance band.
	chart := lc.PayoffChart(104.51, 104.6, 104.0)
	if !chart[0].IsNearBreakeven {
		t.Errorf("104.51 should be near breakeven %v", lc.Breakeven())
	}
	if chart[1].IsNearBreakeven || chart[2].IsNearBreakeven {
		t.Errorf("prices 0.09 and 0.51 away should be outside the 0.01 band")
	}
}

func TestLongCallValidation(t *testing.T) {
	in := LongCallInputs{
		Symbol:         "ACME",
		Strike:         100,
		SharePrice:     103,
		Premium:        450,
		Fee:            0.65,
		CurrentPremium: 520,
		Contracts:      1,
		Expiration:     expFeb16,
		AsOf:           asOfJan15,
	}

	in.CurrentPremium = -1
	if _, err := NewLongCall(in); err == nil {
		t.Errorf("negative current premium should fail validation")
	} else {
		var verr *errors.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("error type = %T, want *errors.ValidationError", err)
		}
	}
}
