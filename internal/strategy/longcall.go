package strategy

import (
	"math"
	"time"

	"options-journal/internal/greeks"
	"options-journal/internal/mathutil"
	"options-journal/internal/risk"
)

// Moneyness classification buckets, keyed off moneyness percent with
// boundaries at 2% and 10% either side of the strike.
const (
	ClassDeepITM = "Deep ITM"
	ClassITM     = "ITM"
	ClassATM     = "ATM"
	ClassOTM     = "OTM"
	ClassDeepOTM = "Deep OTM"
)

const (
	atmBoundaryPercent  = 2.0
	deepBoundaryPercent = 10.0
)

// ITM-probability heuristic constants: start from a coin flip, move 2 points
// per 1% of moneyness, and when out of the money under 30 days, subtract a
// decay penalty that grows to 20 points at expiry.
const (
	itmProbBaseline     = 50.0
	itmProbPerMoneyness = 2.0
	itmProbDecayPenalty = 20.0
	itmProbDecayDays    = 30
)

// LongCallInputs holds the raw inputs for a long call position. Premium,
// Fee and CurrentPremium are position-level dollar amounts.
type LongCallInputs struct {
	Symbol         string
	Strike         float64
	SharePrice     float64 // current underlying price
	Premium        float64 // dollars paid at open
	Fee            float64
	CurrentPremium float64 // current market value of the contract(s)
	Contracts      int
	Expiration     time.Time
	AsOf           time.Time        // evaluation date; zero means now
	Thresholds     *risk.Thresholds // nil means DefaultThresholds
}

// LongCall computes metrics for a purchased call.
type LongCall struct {
	in         LongCallInputs
	asOf       time.Time
	thresholds risk.Thresholds
}

// NewLongCall validates the inputs and returns an immutable model.
func NewLongCall(in LongCallInputs) (*LongCall, error) {
	asOf := resolveAsOf(in.AsOf)
	if err := requirePositive("strike price", in.Strike); err != nil {
		return nil, err
	}
	if err := requirePositive("share price", in.SharePrice); err != nil {
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
	if err := requireNonNegative("current premium", in.CurrentPremium); err != nil {
		return nil, err
	}
	if err := requireExpiresAfter(in.Expiration, asOf); err != nil {
		return nil, err
	}
	return &LongCall{in: in, asOf: asOf, thresholds: resolveThresholds(in.Thresholds)}, nil
}

// Kind returns the strategy kind.
func (l *LongCall) Kind() Kind { return KindLongCall }

// Name returns the display name of the strategy.
func (l *LongCall) Name() string { return "Long Call" }

func (l *LongCall) shareQty() float64 {
	return float64(l.in.Contracts * ContractShareMultiplier)
}

// CostBasis is the total paid for the position: premium plus fee.
func (l *LongCall) CostBasis() float64 {
	return l.in.Premium + l.in.Fee
}

// Breakeven is the strike plus the per-share cost basis.
func (l *LongCall) Breakeven() float64 {
	return mathutil.RoundTo(l.in.Strike+l.CostBasis()/l.shareQty(), 2)
}

// MaxProfit is unbounded for a long call and reported as +Inf. This is the
// one place the engine intentionally returns an infinity.
func (l *LongCall) MaxProfit() float64 {
	return math.Inf(1)
}

// MaxLoss is the full cost basis.
func (l *LongCall) MaxLoss() float64 {
	return l.CostBasis()
}

// IntrinsicValue returns the per-share intrinsic value of the call.
func (l *LongCall) IntrinsicValue() float64 {
	if l.in.SharePrice <= l.in.Strike {
		return 0
	}
	return mathutil.RoundTo(l.in.SharePrice-l.in.Strike, 2)
}

// ExtrinsicValue returns the per-share time value remaining in the current
// premium.
func (l *LongCall) ExtrinsicValue() float64 {
	return mathutil.RoundTo(l.in.CurrentPremium/l.shareQty()-l.IntrinsicValue(), 2)
}

// UnrealizedPnL is the current premium marked against the cost basis.
func (l *LongCall) UnrealizedPnL() float64 {
	return mathutil.RoundTo(l.in.CurrentPremium-l.CostBasis(), 2)
}

// ReturnOnOutlay is the unrealized P&L as a percentage of the cost basis.
func (l *LongCall) ReturnOnOutlay() float64 {
	return mathutil.RoundTo(l.UnrealizedPnL()/l.CostBasis()*100, 2)
}

// AnnualizedReturn annualizes the return on outlay over the days remaining.
func (l *LongCall) AnnualizedReturn() float64 {
	return mathutil.RoundTo(mathutil.AnnualizeReturn(l.ReturnOnOutlay(), l.DaysToExpiration()), 2)
}

// Moneyness returns the percentage by which the underlying exceeds the
// strike; negative when below.
func (l *LongCall) Moneyness() float64 {
	return mathutil.RoundTo((l.in.SharePrice-l.in.Strike)/l.in.Strike*100, 2)
}

// Classification buckets the position by moneyness percent.
func (l *LongCall) Classification() string {
	return classifyMoneyness(l.Moneyness())
}

func classifyMoneyness(m float64) string {
	switch {
	case m >= deepBoundaryPercent:
		return ClassDeepITM
	case m >= atmBoundaryPercent:
		return ClassITM
	case m > -atmBoundaryPercent:
		return ClassATM
	case m > -deepBoundaryPercent:
		return ClassOTM
	default:
		return ClassDeepOTM
	}
}

// LeverageRatio is the share exposure controlled per dollar of cost basis.
func (l *LongCall) LeverageRatio() float64 {
	return mathutil.RoundTo(l.in.SharePrice*l.shareQty()/l.CostBasis(), 2)
}

// ITMProbability is a rough heuristic, not a pricing-model probability:
// baseline 50%, shifted 2 points per 1% of moneyness, with a time-decay
// penalty of up to 20 points when out of the money inside 30 days. Clamped
// to [0, 100].
func (l *LongCall) ITMProbability() float64 {
	m := l.Moneyness()
	prob := itmProbBaseline + itmProbPerMoneyness*m
	if days := l.DaysToExpiration(); m < 0 && days < itmProbDecayDays {
		prob -= itmProbDecayPenalty * float64(itmProbDecayDays-days) / itmProbDecayDays
	}
	if prob < 0 {
		prob = 0
	}
	if prob > 100 {
		prob = 100
	}
	return mathutil.RoundTo(prob, 1)
}

// DaysToExpiration returns whole days from the as-of date to expiration.
func (l *LongCall) DaysToExpiration() int {
	return mathutil.DaysBetween(l.asOf, l.in.Expiration)
}

// ExpirationPnL returns the position P&L if the underlying finishes at price.
func (l *LongCall) ExpirationPnL(price float64) float64 {
	intrinsic := 0.0
	if price > l.in.Strike {
		intrinsic = price - l.in.Strike
	}
	return intrinsic*l.shareQty() - l.CostBasis()
}

// IsInTheMoney reports whether the call is in the money.
func (l *LongCall) IsInTheMoney() bool {
	return l.in.SharePrice >= l.in.Strike
}

// Delta approximates the call's delta from moneyness and time.
func (l *LongCall) Delta() float64 {
	return greeks.ApproximateDelta(l.in.SharePrice, l.in.Strike, l.DaysToExpiration(), greeks.Call)
}

// Theta approximates daily decay of the contract's current value.
func (l *LongCall) Theta() float64 {
	return greeks.ApproximateTheta(l.in.CurrentPremium, l.DaysToExpiration())
}

// RiskFlags analyzes the current metrics and returns any detected risks.
func (l *LongCall) RiskFlags() []risk.Flag {
	return risk.Analyze(risk.Context{
		ReturnPercent:      l.ReturnOnOutlay(),
		Days:               l.DaysToExpiration(),
		CurrentPrice:       l.in.SharePrice,
		Breakeven:          l.Breakeven(),
		Expiration:         l.in.Expiration,
		LossBelowBreakeven: true,
		Thresholds:         l.thresholds,
	})
}

// PayoffChart returns expiration P&L across the given prices, or across a
// generated range around the current price when none are given.
func (l *LongCall) PayoffChart(prices ...float64) []ChartDataPoint {
	if len(prices) == 0 {
		prices = mathutil.GeneratePriceRange(l.in.SharePrice, defaultChartPoints, defaultChartStepPercent)
	}
	return payoffChart(prices, l.Breakeven(), longOptionBreakevenTolerance, l.ExpirationPnL)
}

// LongCallMetrics is a full snapshot of every computed metric.
type LongCallMetrics struct {
	Symbol           string      `json:"symbol"`
	Kind             Kind        `json:"kind"`
	Breakeven        float64     `json:"breakeven"`
	MaxProfit        float64     `json:"maxProfit"`
	MaxLoss          float64     `json:"maxLoss"`
	CostBasis        float64     `json:"costBasis"`
	IntrinsicValue   float64     `json:"intrinsicValue"`
	ExtrinsicValue   float64     `json:"extrinsicValue"`
	UnrealizedPnL    float64     `json:"unrealizedPnL"`
	ReturnOnOutlay   float64     `json:"returnOnOutlay"`
	AnnualizedReturn float64     `json:"annualizedReturn"`
	Moneyness        float64     `json:"moneyness"`
	Classification   string      `json:"classification"`
	LeverageRatio    float64     `json:"leverageRatio"`
	ITMProbability   float64     `json:"itmProbability"`
	DaysToExpiration int         `json:"daysToExpiration"`
	InTheMoney       bool        `json:"inTheMoney"`
	Delta            float64     `json:"delta"`
	Theta            float64     `json:"theta"`
	RiskFlags        []risk.Flag `json:"riskFlags"`
}

// Metrics aggregates every computed field into one snapshot, recomputed on
// every call. MaxProfit serializes as +Inf's JSON-unfriendly value; the CLI
// renders it as "unlimited" before display.
func (l *LongCall) Metrics() LongCallMetrics {
	return LongCallMetrics{
		Symbol:           l.in.Symbol,
		Kind:             l.Kind(),
		Breakeven:        l.Breakeven(),
		MaxProfit:        l.MaxProfit(),
		MaxLoss:          l.MaxLoss(),
		CostBasis:        l.CostBasis(),
		IntrinsicValue:   l.IntrinsicValue(),
		ExtrinsicValue:   l.ExtrinsicValue(),
		UnrealizedPnL:    l.UnrealizedPnL(),
		ReturnOnOutlay:   l.ReturnOnOutlay(),
		AnnualizedReturn: l.AnnualizedReturn(),
		Moneyness:        l.Moneyness(),
		Classification:   l.Classification(),
		LeverageRatio:    l.LeverageRatio(),
		ITMProbability:   l.ITMProbability(),
		DaysToExpiration: l.DaysToExpiration(),
		InTheMoney:       l.IsInTheMoney(),
		Delta:            l.Delta(),
		Theta:            l.Theta(),
		RiskFlags:        l.RiskFlags(),
	}
}
