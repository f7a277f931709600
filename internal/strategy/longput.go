package strategy

import (
	"time"

	"options-journal/internal/greeks"
	"options-journal/internal/mathutil"
	"options-journal/internal/risk"
)

// LongPutInputs holds the raw inputs for a long put position. Premium, Fee
// and CurrentPremium are position-level dollar amounts.
type LongPutInputs struct {
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

// LongPut computes metrics for a purchased put. It mirrors LongCall with the
// moneyness axis flipped: the position gains as the underlying falls.
type LongPut struct {
	in         LongPutInputs
	asOf       time.Time
	thresholds risk.Thresholds
}

// NewLongPut validates the inputs and returns an immutable model.
func NewLongPut(in LongPutInputs) (*LongPut, error) {
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
	return &LongPut{in: in, asOf: asOf, thresholds: resolveThresholds(in.Thresholds)}, nil
}

// Kind returns the strategy kind.
func (l *LongPut) Kind() Kind { return KindLongPut }

// Name returns the display name of the strategy.
func (l *LongPut) Name() string { return "Long Put" }

func (l *LongPut) shareQty() float64 {
	return float64(l.in.Contracts * ContractShareMultiplier)
}

// CostBasis is the total paid for the position: premium plus fee.
func (l *LongPut) CostBasis() float64 {
	return l.in.Premium + l.in.Fee
}

// Breakeven is the strike reduced by the per-share cost basis.
func (l *LongPut) Breakeven() float64 {
	return mathutil.RoundTo(l.in.Strike-l.CostBasis()/l.shareQty(), 2)
}

// MaxProfit is bounded by the underlying going to zero.
func (l *LongPut) MaxProfit() float64 {
	return l.in.Strike*l.shareQty() - l.CostBasis()
}

// MaxLoss is the full cost basis.
func (l *LongPut) MaxLoss() float64 {
	return l.CostBasis()
}

// IntrinsicValue returns the per-share intrinsic value of the put.
func (l *LongPut) IntrinsicValue() float64 {
	if l.in.SharePrice >= l.in.Strike {
		return 0
	}
	return mathutil.RoundTo(l.in.Strike-l.in.SharePrice, 2)
}

// UnrealizedPnL is the current premium marked against the cost basis.
func (l *LongPut) UnrealizedPnL() float64 {
	return mathutil.RoundTo(l.in.CurrentPremium-l.CostBasis(), 2)
}

// ReturnOnOutlay is the unrealized P&L as a percentage of the cost basis.
func (l *LongPut) ReturnOnOutlay() float64 {
	return mathutil.RoundTo(l.UnrealizedPnL()/l.CostBasis()*100, 2)
}

// AnnualizedReturn annualizes the return on outlay over the days remaining.
func (l *LongPut) AnnualizedReturn() float64 {
	return mathutil.RoundTo(mathutil.AnnualizeReturn(l.ReturnOnOutlay(), l.DaysToExpiration()), 2)
}

// Moneyness returns the percentage by which the strike exceeds the
// underlying, so positive means in the money, matching the call convention.
func (l *LongPut) Moneyness() float64 {
	return mathutil.RoundTo((l.in.Strike-l.in.SharePrice)/l.in.Strike*100, 2)
}

// Classification buckets the position by moneyness percent.
func (l *LongPut) Classification() string {
	return classifyMoneyness(l.Moneyness())
}

// ITMProbability uses the same heuristic as LongCall on the flipped
// moneyness axis.
func (l *LongPut) ITMProbability() float64 {
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
func (l *LongPut) DaysToExpiration() int {
	return mathutil.DaysBetween(l.asOf, l.in.Expiration)
}

// ExpirationPnL returns the position P&L if the underlying finishes at price.
func (l *LongPut) ExpirationPnL(price float64) float64 {
	intrinsic := 0.0
	if price < l.in.Strike {
		intrinsic = l.in.Strike - price
	}
	return intrinsic*l.shareQty() - l.CostBasis()
}

// IsInTheMoney reports whether the put is in the money.
func (l *LongPut) IsInTheMoney() bool {
	return l.in.SharePrice <= l.in.Strike
}

// Delta approximates the put's delta from moneyness and time.
func (l *LongPut) Delta() float64 {
	return greeks.ApproximateDelta(l.in.SharePrice, l.in.Strike, l.DaysToExpiration(), greeks.Put)
}

// Theta approximates daily decay of the contract's current value.
func (l *LongPut) Theta() float64 {
	return greeks.ApproximateTheta(l.in.CurrentPremium, l.DaysToExpiration())
}

// RiskFlags analyzes the current metrics and returns any detected risks.
// A long put loses as the underlying rises, so the adverse price direction
// is upward.
func (l *LongPut) RiskFlags() []risk.Flag {
	return risk.Analyze(risk.Context{
		ReturnPercent:      l.ReturnOnOutlay(),
		Days:               l.DaysToExpiration(),
		CurrentPrice:       l.in.SharePrice,
		Breakeven:          l.Breakeven(),
		Expiration:         l.in.Expiration,
		LossBelowBreakeven: false,
		Thresholds:         l.thresholds,
	})
}

// PayoffChart returns expiration P&L across the given prices, or across a
// generated range around the current price when none are given.
func (l *LongPut) PayoffChart(prices ...float64) []ChartDataPoint {
	if len(prices) == 0 {
		prices = mathutil.GeneratePriceRange(l.in.SharePrice, defaultChartPoints, defaultChartStepPercent)
	}
	return payoffChart(prices, l.Breakeven(), longOptionBreakevenTolerance, l.ExpirationPnL)
}

// LongPutMetrics is a full snapshot of every computed metric.
type LongPutMetrics struct {
	Symbol           string      `json:"symbol"`
	Kind             Kind        `json:"kind"`
	Breakeven        float64     `json:"breakeven"`
	MaxProfit        float64     `json:"maxProfit"`
	MaxLoss          float64     `json:"maxLoss"`
	CostBasis        float64     `json:"costBasis"`
	IntrinsicValue   float64     `json:"intrinsicValue"`
	UnrealizedPnL    float64     `json:"unrealizedPnL"`
	ReturnOnOutlay   float64     `json:"returnOnOutlay"`
	AnnualizedReturn float64     `json:"annualizedReturn"`
	Moneyness        float64     `json:"moneyness"`
	Classification   string      `json:"classification"`
	ITMProbability   float64     `json:"itmProbability"`
	DaysToExpiration int         `json:"daysToExpiration"`
	InTheMoney       bool        `json:"inTheMoney"`
	Delta            float64     `json:"delta"`
	Theta            float64     `json:"theta"`
	RiskFlags        []risk.Flag `json:"riskFlags"`
}

// Metrics aggregates every computed field into one snapshot, recomputed on
// every call.
func (l *LongPut) Metrics() LongPutMetrics {
	return LongPutMetrics{
		Symbol:           l.in.Symbol,
		Kind:             l.Kind(),
		Breakeven:        l.Breakeven(),
		MaxProfit:        l.MaxProfit(),
		MaxLoss:          l.MaxLoss(),
		CostBasis:        l.CostBasis(),
		IntrinsicValue:   l.IntrinsicValue(),
		UnrealizedPnL:    l.UnrealizedPnL(),
		ReturnOnOutlay:   l.ReturnOnOutlay(),
		AnnualizedReturn: l.AnnualizedReturn(),
		Moneyness:        l.Moneyness(),
		Classification:   l.Classification(),
		ITMProbability:   l.ITMProbability(),
		DaysToExpiration: l.DaysToExpiration(),
		InTheMoney:       l.IsInTheMoney(),
		Delta:            l.Delta(),
		Theta:            l.Theta(),
		RiskFlags:        l.RiskFlags(),
	}
}
