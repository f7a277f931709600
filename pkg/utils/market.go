package utils

import (
	"time"
)

// NewYorkLocation is the timezone for US equity and option markets.
var NewYorkLocation *time.Location

func init() {
	var err error
	NewYorkLocation, err = time.LoadLocation("America/New_York")
	if err != nil {
		// Fallback to UTC-5
		NewYorkLocation = time.FixedZone("EST", -5*60*60)
	}
}

// IsTradingDay reports whether the date falls on a weekday. Exchange
// holidays are not tracked.
func IsTradingDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// ThirdFriday returns the third Friday of the given month, the standard
// monthly option expiration date.
func ThirdFriday(year int, month time.Month) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(time.Friday) - int(first.Weekday()) + 7) % 7
	return first.AddDate(0, 0, offset+14)
}

// NextMonthlyExpiration returns the first standard monthly expiration
// strictly after the given date.
func NextMonthlyExpiration(after time.Time) time.Time {
	exp := ThirdFriday(after.Year(), after.Month())
	if !exp.After(after) {
		// First of the next month; AddDate on the original day would
		// normalize Jan 31 into March and skip February.
		next := time.Date(after.Year(), after.Month()+1, 1, 0, 0, 0, 0, time.UTC)
		exp = ThirdFriday(next.Year(), next.Month())
	}
	return exp
}

// IsMonthlyExpiration reports whether the date is a standard third-Friday
// monthly expiration.
func IsMonthlyExpiration(t time.Time) bool {
	exp := ThirdFriday(t.Year(), t.Month())
	return t.Day() == exp.Day() && t.Month() == exp.Month() && t.Year() == exp.Year()
}
