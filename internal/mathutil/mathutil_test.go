package mathutil

import (
	"math"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRoundTo(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		decimals int
		want     float64
	}{
		{"two decimals", 92.5065, 2, 92.51},
		{"truncating case", 7.8878, 2, 7.89},
		{"exact half rounds up", 2.5, 0, 3},
		{"negative exact half rounds away from zero", -2.5, 0, -3},
		{"representable half up", 0.125, 2, 0.13},
		{"representable half away from zero", -0.125, 2, -0.13},
		{"zero", 0, 2, 0},
		{"no decimals needed", 100, 2, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundTo(tt.value, tt.decimals)
			if got != tt.want {
				t.Errorf("RoundTo(%v, %d) = %v, want %v", tt.value, tt.decimals, got, tt.want)
			}
		})
	}
}

func TestRoundToSignSymmetry(t *testing.T) {
	// Negative P&L must round with the same magnitude as the positive side.
	values := []float64{2.005, 2.675, 0.005, 1.115, 92.5065}
	for _, v := range values {
		pos := RoundTo(v, 2)
		neg := RoundTo(-v, 2)
		if neg != -pos {
			t.Errorf("RoundTo(%v, 2) = %v but RoundTo(%v, 2) = %v; want mirrored magnitudes", v, pos, -v, neg)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{"same instant", date(2024, time.March, 15), date(2024, time.March, 15), 0},
		{"one day", date(2024, time.March, 15), date(2024, time.March, 16), 1},
		{"month boundary", date(2024, time.January, 31), date(2024, time.February, 1), 1},
		{"year boundary", date(2023, time.December, 31), date(2024, time.January, 1), 1},
		{"leap february", date(2024, time.February, 28), date(2024, time.March, 1), 2},
		{"month boundary window", date(2024, time.January, 15), date(2024, time.February, 16), 32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.from, tt.to); got != tt.want {
				t.Errorf("DaysBetween(%v, %v) = %d, want %d", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestDaysBetweenTruncatesPartialDays(t *testing.T) {
	// Elapsed-time division, not calendar-field subtraction: a gap just
	// short of 24 hours is zero days even though the calendar date changed.
	from := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.March, 16, 9, 54, 0, 0, time.UTC)
	if got := DaysBetween(from, to); got != 0 {
		t.Errorf("DaysBetween over 23.9h = %d, want 0", got)
	}
}

func TestAnnualizeReturn(t *testing.T) {
	tests := []struct {
		name    string
		percent float64
		days    int
		want    float64
	}{
		{"full year", 10, 365, 10},
		{"five periods", 2, 73, 10},
		{"one day", 1, 1, 365},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnnualizeReturn(tt.percent, tt.days)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("AnnualizeReturn(%v, %d) = %v, want %v", tt.percent, tt.days, got, tt.want)
			}
		})
	}
}

func TestAnnualizeReturnZeroDayFloor(t *testing.T) {
	// Zero-DTE positions annualize as one-day positions by policy.
	if AnnualizeReturn(3.5, 0) != AnnualizeReturn(3.5, 1) {
		t.Errorf("AnnualizeReturn(x, 0) = %v, want same as 1 day %v", AnnualizeReturn(3.5, 0), AnnualizeReturn(3.5, 1))
	}
}

func TestGeneratePriceRange(t *testing.T) {
	prices := GeneratePriceRange(100, 21, 2)

	if len(prices) != 21 {
		t.Fatalf("len = %d, want 21", len(prices))
	}
	for i := 1; i < len(prices); i++ {
		if prices[i] <= prices[i-1] {
			t.Fatalf("prices not monotonically increasing at %d: %v <= %v", i, prices[i], prices[i-1])
		}
	}
	if prices[0] >= 100 {
		t.Errorf("first price %v should be below center", prices[0])
	}
	if prices[len(prices)-1] <= 100 {
		t.Errorf("last price %v should be above center", prices[len(prices)-1])
	}
}

func TestGeneratePriceRangeDeterministic(t *testing.T) {
	a := GeneratePriceRange(87.35, 15, 1.5)
	b := GeneratePriceRange(87.35, 15, 1.5)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("price %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestGeneratePriceRangeEmpty(t *testing.T) {
	if got := GeneratePriceRange(100, 0, 2); got != nil {
		t.Errorf("zero points should yield nil, got %v", got)
	}
}
