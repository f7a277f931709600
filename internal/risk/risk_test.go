package risk

import (
	"testing"
	"time"
)

func baseContext() Context {
	return Context{
		ReturnPercent:      2.0,
		Days:               60,
		CurrentPrice:       100,
		Breakeven:          98,
		Expiration:         time.Date(2024, time.June, 21, 0, 0, 0, 0, time.UTC),
		LossBelowBreakeven: true,
		Thresholds:         DefaultThresholds,
	}
}

func findFlag(flags []Flag, cat Category) (Flag, bool) {
	for _, f := range flags {
		if f.Category == cat {
			return f, true
		}
	}
	return Flag{}, false
}

func TestAnalyzeNoRisks(t *testing.T) {
	flags := Analyze(baseContext())
	if len(flags) != 0 {
		t.Fatalf("expected no flags, got %v", flags)
	}
}

func TestTimeRiskSeverities(t *testing.T) {
	tests := []struct {
		days int
		want Severity
	}{
		{0, SeverityCritical},
		{7, SeverityCritical},
		{8, SeverityHigh},
		{14, SeverityHigh},
		{15, SeverityMedium},
		{30, SeverityMedium},
	}
	for _, tt := range tests {
		ctx := baseContext()
		ctx.Days = tt.days
		f, ok := findFlag(Analyze(ctx), CategoryTime)
		if !ok {
			t.Errorf("days %d: expected a time flag", tt.days)
			continue
		}
		if f.Severity != tt.want {
			t.Errorf("days %d: severity = %s, want %s", tt.days, f.Severity, tt.want)
		}
	}

	ctx := baseContext()
	ctx.Days = 31
	if _, ok := findFlag(Analyze(ctx), CategoryTime); ok {
		t.Errorf("days 31: expected no time flag")
	}
}

func TestReturnRiskScaling(t *testing.T) {
	tests := []struct {
		returnPercent float64
		want          Severity
	}{
		{0.1, SeverityHigh},   // 90% below threshold
		{0.5, SeverityMedium}, // 50% below
		{0.9, SeverityLow},    // 10% below
	}
	for _, tt := range tests {
		ctx := baseContext()
		ctx.ReturnPercent = tt.returnPercent
		f, ok := findFlag(Analyze(ctx), CategoryReturn)
		if !ok {
			t.Errorf("return %.2f: expected a return flag", tt.returnPercent)
			continue
		}
		if f.Severity != tt.want {
			t.Errorf("return %.2f: severity = %s, want %s", tt.returnPercent, f.Severity, tt.want)
		}
	}

	ctx := baseContext()
	ctx.ReturnPercent = 1.5
	if _, ok := findFlag(Analyze(ctx), CategoryReturn); ok {
		t.Errorf("return above threshold should not flag")
	}
}

func TestPriceRiskAdverseDirection(t *testing.T) {
	ctx := baseContext()
	ctx.Breakeven = 100

	// 10% below breakeven on a position that loses below breakeven.
	ctx.CurrentPrice = 90
	if f, ok := findFlag(Analyze(ctx), CategoryPrice); !ok {
		t.Errorf("expected price flag 10%% below breakeven")
	} else if f.Severity != SeverityMedium {
		t.Errorf("severity = %s, want medium", f.Severity)
	}

	// Past twice the distance threshold escalates.
	ctx.CurrentPrice = 85
	if f, ok := findFlag(Analyze(ctx), CategoryPrice); !ok {
		t.Errorf("expected price flag 15%% below breakeven")
	} else if f.Severity != SeverityHigh {
		t.Errorf("severity = %s, want high", f.Severity)
	}

	// Same distance on the profitable side: no flag.
	ctx.CurrentPrice = 110
	if _, ok := findFlag(Analyze(ctx), CategoryPrice); ok {
		t.Errorf("price above breakeven should not flag a loss-below position")
	}

	// Flip the adverse direction (long put shape).
	ctx.LossBelowBreakeven = false
	if _, ok := findFlag(Analyze(ctx), CategoryPrice); !ok {
		t.Errorf("price above breakeven should flag a loss-above position")
	}
	ctx.CurrentPrice = 90
	if _, ok := findFlag(Analyze(ctx), CategoryPrice); ok {
		t.Errorf("price below breakeven should not flag a loss-above position")
	}
}

func TestAssignmentRisk(t *testing.T) {
	ctx := baseContext()
	ctx.Days = 3
	ctx.ShortOption = true
	ctx.InTheMoney = true
	ctx.Intrinsic = 500
	ctx.Premium = 200

	f, ok := findFlag(Analyze(ctx), CategoryAssignment)
	if !ok {
		t.Fatalf("expected an assignment flag")
	}
	if f.Severity != SeverityHigh {
		t.Errorf("severity = %s, want high", f.Severity)
	}

	// Intrinsic below 80% of premium: no flag.
	ctx.Intrinsic = 100
	if _, ok := findFlag(Analyze(ctx), CategoryAssignment); ok {
		t.Errorf("intrinsic below 80%% of premium should not flag")
	}

	// Just past the 80% boundary: flagged.
	ctx.Intrinsic = 160.1
	if _, ok := findFlag(Analyze(ctx), CategoryAssignment); !ok {
		t.Errorf("intrinsic at 80%% of premium should flag")
	}

	// Too far from expiry: no flag.
	ctx.Intrinsic = 500
	ctx.Days = 10
	if _, ok := findFlag(Analyze(ctx), CategoryAssignment); ok {
		t.Errorf("assignment should not flag outside the critical window")
	}

	// Long positions never flag assignment.
	ctx.Days = 3
	ctx.ShortOption = false
	if _, ok := findFlag(Analyze(ctx), CategoryAssignment); ok {
		t.Errorf("long option should not flag assignment")
	}
}

func TestAnalyzeFlagOrder(t *testing.T) {
	// A context that trips every rule must emit flags in evaluation order.
	ctx := Context{
		ReturnPercent:      0.1,
		Days:               3,
		CurrentPrice:       80,
		Breakeven:          100,
		ShortOption:        true,
		InTheMoney:         true,
		Intrinsic:          2000,
		Premium:            150,
		LossBelowBreakeven: true,
		Thresholds:         DefaultThresholds,
	}

	flags := Analyze(ctx)
	want := []Category{CategoryTime, CategoryReturn, CategoryPrice, CategoryAssignment}
	if len(flags) != len(want) {
		t.Fatalf("got %d flags, want %d: %v", len(flags), len(want), flags)
	}
	for i, cat := range want {
		if flags[i].Category != cat {
			t.Errorf("flag %d category = %s, want %s", i, flags[i].Category, cat)
		}
	}
}

func TestCustomThresholds(t *testing.T) {
	// Copy the defaults and override; the shared default must stay intact.
	custom := DefaultThresholds
	custom.CriticalDays = 2
	custom.HighDays = 5

	ctx := baseContext()
	ctx.Days = 4
	ctx.Thresholds = custom

	f, ok := findFlag(Analyze(ctx), CategoryTime)
	if !ok {
		t.Fatalf("expected a time flag at 4 days")
	}
	if f.Severity != SeverityHigh {
		t.Errorf("severity = %s, want high under custom thresholds", f.Severity)
	}

	if DefaultThresholds.CriticalDays != 7 || DefaultThresholds.HighDays != 14 {
		t.Errorf("DefaultThresholds mutated: %+v", DefaultThresholds)
	}
}
