// Package greeks provides simplified option Greeks approximations.
//
// These are illustrative estimates derived purely from moneyness and time to
// expiry. There is no volatility input and no pricing model behind them; they
// exist to give journal entries a rough sense of directional exposure and time
// decay, not to price anything.
package greeks

import "math"

// OptionType identifies the option side.
type OptionType string

const (
	Call OptionType = "CALL"
	Put  OptionType = "PUT"
)

// baseTransitionWidth controls how wide the delta transition around the
// strike is for a full year of remaining time, as a fraction of strike.
const baseTransitionWidth = 0.12

// ApproximateDelta estimates delta from moneyness and time to expiry.
//
// Calls map to (0, 1) and puts to (-1, 0). The estimate is a logistic curve
// in moneyness: deeper ITM pushes the magnitude toward 1, deeper OTM toward 0.
// Less remaining time narrows the transition, so near expiry the curve
// approaches a step function at the strike.
func ApproximateDelta(spotPrice, strike float64, daysToExpiry int, typ OptionType) float64 {
	if daysToExpiry < 1 {
		daysToExpiry = 1
	}
	moneyness := (spotPrice - strike) / strike
	width := baseTransitionWidth * math.Sqrt(float64(daysToExpiry)/365)

	// Each side gets its own logistic: the put form is the exact mirror of
	// the call form (1/(1+e^-x) - 1 == -1/(1+e^x)) but avoids the
	// subtraction, which rounds to exactly -1 at extreme moneyness.
	if typ == Put {
		putDelta := -1 / (1 + math.Exp(moneyness/width))
		return clampOpen(putDelta, -1, 0)
	}
	callDelta := 1 / (1 + math.Exp(-moneyness/width))
	return clampOpen(callDelta, 0, 1)
}

// clampOpen nudges a saturated logistic output to the representable value
// adjacent to the violated bound, so clamped deltas stay ordered against
// every unclamped output.
func clampOpen(v, lo, hi float64) float64 {
	if v <= lo {
		return math.Nextafter(lo, hi)
	}
	if v >= hi {
		return math.Nextafter(hi, lo)
	}
	return v
}

// ApproximateTheta estimates daily time decay as the remaining premium spread
// evenly over the days left. Always negative. Days is floored at 1 (same
// policy as return annualization), so at expiry the magnitude approaches the
// full premium and with long-dated options it approaches zero.
func ApproximateTheta(premium float64, daysToExpiry int) float64 {
	if daysToExpiry < 1 {
		daysToExpiry = 1
	}
	return -premium / float64(daysToExpiry)
}
