package strategy

import (
	"time"

	"options-journal/internal/greeks"
	"options-journal/internal/mathutil"
	"options-journal/internal/risk"
)

// CoveredCallInputs holds the raw inputs for a covered call position.
// Premium and Fee are position-level dollar amounts; ShareBasis and Strike
// are per-share prices.
type CoveredCallInputs struct {
	Symbol     string
	ShareBasis float64 // per-share cost basis of the covered shares
	SharePrice float64 // current underlying price
	Strike     float64
	Premium    float64 // dollars collected for the short call
	Fee        float64
	Contracts  int
	Expiration time.Time
	AsOf       time.Time        // evaluation date; zero means now
	Thresholds *risk.Thresholds // nil means DefaultThresholds
}

// CoveredCall computes metrics for shares held against a short call.
type CoveredCall struct {
	in         CoveredCallInputs
	asOf       time.Time
	thresholds risk.Thresholds
}

// NewCoveredCall validates the inputs and returns an immutable model.
// Validation is the only failure mode; a non-nil error is always a
// *errors.ValidationError and the model is never partially constructed.
func NewCoveredCall(in CoveredCallInputs) (*CoveredCall, error) {
	asOf := resolveAsOf(in.AsOf)
	if err := requirePositive("share basis", in.ShareBasis); err != nil {
		return nil, err
	}
	if err := requirePositive("share price", in.SharePrice); err != nil {
		return nil, err
	}
	if err := requirePositive("strike price", in.Strike); err != nil {
		return nil, err
	}
	if err := requirePositiveInt("contracts", in.Contracts); err != nil {
		return nil, err
	}
	if err := requireNonNegative("premium", in.Premium); err != nil {
		return nil, err
	}
	if err := requireNonNegative("fee", in.Fee); err != nil {
		return nil, err
	}
	if err := requireExpiresAfter(in.Expiration, asOf); err != nil {
		return nil, err
	}
	return &CoveredCall{in: in, asOf: asOf, thresholds: resolveThresholds(in.Thresholds)}, nil
}

// Kind returns the strategy kind.
func (c *CoveredCall) Kind() Kind { return KindCoveredCall }

// Name returns the display name of the strategy.
func (c *CoveredCall) Name() string { return "Covered Call" }

func (c *CoveredCall) shareQty() float64 {
	return float64(c.in.Contracts * ContractShareMultiplier)
}

func (c *CoveredCall) netPremium() float64 {
	return c.in.Premium - c.in.Fee
}

// Breakeven returns the underlying price at which the position breaks even
// at expiration: cost basis reduced by the net premium per share.
func (c *CoveredCall) Breakeven() float64 {
	return mathutil.RoundTo(c.in.ShareBasis-c.netPremium()/c.shareQty(), 2)
}

// MaxProfit is the capped gain: shares called away at the strike plus the
// net premium.
func (c *CoveredCall) MaxProfit() float64 {
	return (c.in.Strike-c.in.ShareBasis)*c.shareQty() + c.netPremium()
}

// MaxLoss is the outlay at risk: the full share cost less the net premium,
// realized if the underlying goes to zero.
func (c *CoveredCall) MaxLoss() float64 {
	return c.in.ShareBasis*c.shareQty() - c.netPremium()
}

// ReturnOnOutlay is MaxProfit as a percentage of the share cost.
func (c *CoveredCall) ReturnOnOutlay() float64 {
	return mathutil.RoundTo(c.MaxProfit()/(c.in.ShareBasis*c.shareQty())*100, 2)
}

// ReturnOnRisk is MaxProfit as a percentage of MaxLoss. A zero max loss
// yields 0 rather than a division error.
func (c *CoveredCall) ReturnOnRisk() float64 {
	maxLoss := c.MaxLoss()
	if maxLoss == 0 {
		return 0
	}
	return mathutil.RoundTo(c.MaxProfit()/maxLoss*100, 2)
}

// AnnualizedReturns annualizes both period returns over the days remaining.
func (c *CoveredCall) AnnualizedReturns() AnnualizedReturns {
	days := c.DaysToExpiration()
	return AnnualizedReturns{
		ReturnOnOutlay: mathutil.RoundTo(mathutil.AnnualizeReturn(c.ReturnOnOutlay(), days), 2),
		ReturnOnRisk:   mathutil.RoundTo(mathutil.AnnualizeReturn(c.ReturnOnRisk(), days), 2),
	}
}

// DaysToExpiration returns whole days from the as-of date to expiration.
func (c *CoveredCall) DaysToExpiration() int {
	return mathutil.DaysBetween(c.asOf, c.in.Expiration)
}

// ExpirationPnL returns the position P&L if the underlying finishes at
// price. At or above the strike the shares are called away and the gain is
// capped; below it the shares are retained at market.
func (c *CoveredCall) ExpirationPnL(price float64) float64 {
	if price >= c.in.Strike {
		return c.MaxProfit()
	}
	return (price-c.in.ShareBasis)*c.shareQty() + c.netPremium()
}

// IsInTheMoney reports whether the short call is in the money.
func (c *CoveredCall) IsInTheMoney() bool {
	return c.in.SharePrice >= c.in.Strike
}

// IntrinsicValue returns the short call's intrinsic value in position-level
// dollars.
func (c *CoveredCall) IntrinsicValue() float64 {
	if !c.IsInTheMoney() {
		return 0
	}
	return (c.in.SharePrice - c.in.Strike) * c.shareQty()
}

// IsLikelyAssignment reports whether the short call is likely to be
// assigned: in the money, close to expiry, and with intrinsic value near the
// premium collected.
func (c *CoveredCall) IsLikelyAssignment() bool {
	return c.IsInTheMoney() &&
		c.DaysToExpiration() <= likelyAssignmentDays &&
		c.IntrinsicValue() >= c.in.Premium*likelyAssignmentRatio
}

// Delta approximates the short call's delta from moneyness and time.
func (c *CoveredCall) Delta() float64 {
	return greeks.ApproximateDelta(c.in.SharePrice, c.in.Strike, c.DaysToExpiration(), greeks.Call)
}

// Theta approximates the short call's daily time decay.
func (c *CoveredCall) Theta() float64 {
	return greeks.ApproximateTheta(c.in.Premium, c.DaysToExpiration())
}

// RiskFlags analyzes the current metrics and returns any detected risks.
func (c *CoveredCall) RiskFlags() []risk.Flag {
	return risk.Analyze(risk.Context{
		ReturnPercent:      c.ReturnOnOutlay(),
		Days:               c.DaysToExpiration(),
		CurrentPrice:       c.in.SharePrice,
		Breakeven:          c.Breakeven(),
		Expiration:         c.in.Expiration,
		ShortOption:        true,
		InTheMoney:         c.IsInTheMoney(),
		Intrinsic:          c.IntrinsicValue(),
		Premium:            c.in.Premium,
		LossBelowBreakeven: true,
		Thresholds:         c.thresholds,
	})
}

// PayoffChart returns expiration P&L across the given prices, or across a
// generated range around the current price when none are given.
func (c *CoveredCall) PayoffChart(prices ...float64) []ChartDataPoint {
	if len(prices) == 0 {
		prices = mathutil.GeneratePriceRange(c.in.SharePrice, defaultChartPoints, defaultChartStepPercent)
	}
	return payoffChart(prices, c.Breakeven(), shortPremiumBreakevenTolerance, c.ExpirationPnL)
}

// CoveredCallMetrics is a full snapshot of every computed metric.
type CoveredCallMetrics struct {
	Symbol           string            `json:"symbol"`
	Kind             Kind              `json:"kind"`
	Breakeven        float64           `json:"breakeven"`
	MaxProfit        float64           `json:"maxProfit"`
	MaxLoss          float64           `json:"maxLoss"`
	ReturnOnOutlay   float64           `json:"returnOnOutlay"`
	ReturnOnRisk     float64           `json:"returnOnRisk"`
	Annualized       AnnualizedReturns `json:"annualized"`
	DaysToExpiration int               `json:"daysToExpiration"`
	InTheMoney       bool              `json:"inTheMoney"`
	IntrinsicValue   float64           `json:"intrinsicValue"`
	LikelyAssignment bool              `json:"likelyAssignment"`
	Delta            float64           `json:"delta"`
	Theta            float64           `json:"theta"`
	RiskFlags        []risk.Flag       `json:"riskFlags"`
}

// Metrics aggregates every computed field into one snapshot. Each call
// recomputes from the stored inputs; nothing is cached.
func (c *CoveredCall) Metrics() CoveredCallMetrics {
	return CoveredCallMetrics{
		Symbol:           c.in.Symbol,
		Kind:             c.Kind(),
		Breakeven:        c.Breakeven(),
		MaxProfit:        c.MaxProfit(),
		MaxLoss:          c.MaxLoss(),
		ReturnOnOutlay:   c.ReturnOnOutlay(),
		ReturnOnRisk:     c.ReturnOnRisk(),
		Annualized:       c.AnnualizedReturns(),
		DaysToExpiration: c.DaysToExpiration(),
		InTheMoney:       c.IsInTheMoney(),
		IntrinsicValue:   c.IntrinsicValue(),
		LikelyAssignment: c.IsLikelyAssignment(),
		Delta:            c.Delta(),
		Theta:            c.Theta(),
		RiskFlags:        c.RiskFlags(),
	}
}
