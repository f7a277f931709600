// Package mathutil provides shared numeric helpers for strategy calculations.
package mathutil

import (
	"math"
	"time"
)

// DaysPerYear is the day count used for return annualization.
const DaysPerYear = 365

const millisPerDay = 24 * 60 * 60 * 1000

// RoundTo rounds value to the given number of decimal places, half away
// from zero. P&L values can be negative, so the sign is handled explicitly
// rather than relying on math.Round's behavior at exact halves.
func RoundTo(value float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	if value < 0 {
		return math.Ceil(value*factor-0.5) / factor
	}
	return math.Floor(value*factor+0.5) / factor
}

// DaysBetween returns the number of whole calendar days between from and to,
// computed as elapsed milliseconds divided by a day's worth of milliseconds.
// This is deliberately not calendar-field subtraction: a 23.9-hour gap across
// a DST change truncates to zero days.
func DaysBetween(from, to time.Time) int {
	return int(to.Sub(from).Milliseconds() / millisPerDay)
}

// AnnualizeReturn scales a period return percentage to an annual rate.
// Days is floored at 1: a same-day position annualizes as a one-day position
// rather than dividing by zero. That floor is policy, not just a guard --
// zero-DTE returns are reported as one-day returns.
func AnnualizeReturn(returnPercent float64, days int) float64 {
	if days < 1 {
		days = 1
	}
	return returnPercent * (DaysPerYear / float64(days))
}

// GeneratePriceRange produces points prices centered on center, spaced by
// stepPercent of center per step. The result is monotonically increasing and
// always includes prices on both sides of center. Deterministic for identical
// inputs.
func GeneratePriceRange(center float64, points int, stepPercent float64) []float64 {
	if points < 1 {
		return nil
	}
	step := center * stepPercent / 100
	half := points / 2
	prices := make([]float64, 0, points)
	for i := 0; i < points; i++ {
		prices = append(prices, center+float64(i-half)*step)
	}
	return prices
}
