// Package utils provides shared utility functions.
package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// OptionRight is the side of an option contract in an OCC symbol.
type OptionRight string

const (
	RightCall OptionRight = "C"
	RightPut  OptionRight = "P"
)

// FormatOCCSymbol builds the standard OCC option symbol,
// e.g. AAPL 240216C00100000 for the AAPL 100 call expiring 2024-02-16.
// The strike is encoded as dollars*1000 in eight digits.
func FormatOCCSymbol(underlying string, expiration time.Time, right OptionRight, strike float64) string {
	root := strings.ToUpper(strings.TrimSpace(underlying))
	strikeMillis := int64(strike*1000 + 0.5)
	return fmt.Sprintf("%s%s%s%08d", root, expiration.Format("060102"), right, strikeMillis)
}

// ParseOCCSymbol splits an OCC option symbol into its parts. The root may be
// up to 6 characters; the tail is always 15 characters (yymmdd + right +
// 8-digit strike).
func ParseOCCSymbol(symbol string) (underlying string, expiration time.Time, right OptionRight, strike float64, err error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if len(s) < 16 {
		err = fmt.Errorf("OCC symbol %q too short", symbol)
		return
	}

	tail := s[len(s)-15:]
	underlying = s[:len(s)-15]

	expiration, err = time.Parse("060102", tail[:6])
	if err != nil {
		err = fmt.Errorf("OCC symbol %q: bad expiration: %w", symbol, err)
		return
	}

	switch tail[6] {
	case 'C':
		right = RightCall
	case 'P':
		right = RightPut
	default:
		err = fmt.Errorf("OCC symbol %q: bad right %q", symbol, tail[6])
		return
	}

	strikeMillis, perr := strconv.ParseInt(tail[7:], 10, 64)
	if perr != nil {
		err = fmt.Errorf("OCC symbol %q: bad strike: %w", symbol, perr)
		return
	}
	strike = float64(strikeMillis) / 1000

	return
}
