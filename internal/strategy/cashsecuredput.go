package strategy

import (
	"time"

	"options-journal/internal/greeks"
	"options-journal/internal/mathutil"
	"options-journal/internal/risk"
)

// CashSecuredPutInputs holds the raw inputs for a cash-secured put position.
// CashSecured is the collateral set aside for assignment; when zero it
// defaults to the full assignment cost (strike times shares).
type CashSecuredPutInputs struct {
	Symbol      string
	Strike      float64
	SharePrice  float64 // current underlying price
	Premium     float64 // dollars collected for the short put
	Fee         float64
	CashSecured float64
	Contracts   int
	Expiration  time.Time
	AsOf        time.Time        // evaluation date; zero means now
	Thresholds  *risk.Thresholds // nil means DefaultThresholds
}

// CashSecuredPut computes metrics for a short put backed by cash collateral.
type CashSecuredPut struct {
	in         CashSecuredPutInputs
	asOf       time.Time
	thresholds risk.Thresholds
}

// NewCashSecuredPut validates the inputs and returns an immutable model.
func NewCashSecuredPut(in CashSecuredPutInputs) (*CashSecuredPut, error) {
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
	if in.CashSecured != 0 {
		if err := requirePositive("cash secured amount", in.CashSecured); err != nil {
			return nil, err
		}
	}
	if err := requireExpiresAfter(in.Expiration, asOf); err != nil {
		return nil, err
	}
	return &CashSecuredPut{in: in, asOf: asOf, thresholds: resolveThresholds(in.Thresholds)}, nil
}

// Kind returns the strategy kind.
func (p *CashSecuredPut) Kind() Kind { return KindCashSecuredPut }

// Name returns the display name of the strategy.
func (p *CashSecuredPut) Name() string { return "Cash-Secured Put" }

func (p *CashSecuredPut) shareQty() float64 {
	return float64(p.in.Contracts * ContractShareMultiplier)
}

func (p *CashSecuredPut) netPremium() float64 {
	return p.in.Premium - p.in.Fee
}

// CollateralRequired returns the cash backing the put.
func (p *CashSecuredPut) CollateralRequired() float64 {
	if p.in.CashSecured > 0 {
		return p.in.CashSecured
	}
	return p.in.Strike * p.shareQty()
}

// Breakeven is the strike reduced by the net premium per share.
func (p *CashSecuredPut) Breakeven() float64 {
	return mathutil.RoundTo(p.in.Strike-p.netPremium()/p.shareQty(), 2)
}

// MaxProfit is the net premium, kept in full when the put expires worthless.
func (p *CashSecuredPut) MaxProfit() float64 {
	return p.netPremium()
}

// MaxLoss is assignment at the strike with the stock at zero, offset by the
// net premium.
func (p *CashSecuredPut) MaxLoss() float64 {
	return p.in.Strike*p.shareQty() - p.netPremium()
}

// ReturnOnOutlay is MaxProfit as a percentage of the collateral.
func (p *CashSecuredPut) ReturnOnOutlay() float64 {
	return mathutil.RoundTo(p.MaxProfit()/p.CollateralRequired()*100, 2)
}

// ReturnOnRisk is MaxProfit as a percentage of MaxLoss; 0 when MaxLoss is 0.
func (p *CashSecuredPut) ReturnOnRisk() float64 {
	maxLoss := p.MaxLoss()
	if maxLoss == 0 {
		return 0
	}
	return mathutil.RoundTo(p.MaxProfit()/maxLoss*100, 2)
}

// AnnualizedReturns annualizes both period returns over the days remaining.
func (p *CashSecuredPut) AnnualizedReturns() AnnualizedReturns {
	days := p.DaysToExpiration()
	return AnnualizedReturns{
		ReturnOnOutlay: mathutil.RoundTo(mathutil.AnnualizeReturn(p.ReturnOnOutlay(), days), 2),
		ReturnOnRisk:   mathutil.RoundTo(mathutil.AnnualizeReturn(p.ReturnOnRisk(), days), 2),
	}
}

// DaysToExpiration returns whole days from the as-of date to expiration.
func (p *CashSecuredPut) DaysToExpiration() int {
	return mathutil.DaysBetween(p.asOf, p.in.Expiration)
}

// ExpirationPnL returns the position P&L if the underlying finishes at
// price. At or above the strike the put expires worthless; below it the
// shares are put to the holder at the strike.
func (p *CashSecuredPut) ExpirationPnL(price float64) float64 {
	if price >= p.in.Strike {
		return p.netPremium()
	}
	return p.netPremium() - (p.in.Strike-price)*p.shareQty()
}

// IsInTheMoney reports whether the short put is in the money.
func (p *CashSecuredPut) IsInTheMoney() bool {
	return p.in.SharePrice <= p.in.Strike
}

// IntrinsicValue returns the short put's intrinsic value in position-level
// dollars.
func (p *CashSecuredPut) IntrinsicValue() float64 {
	if p.in.SharePrice >= p.in.Strike {
		return 0
	}
	return (p.in.Strike - p.in.SharePrice) * p.shareQty()
}

// IsLikelyAssignment reports whether the short put is likely to be assigned.
func (p *CashSecuredPut) IsLikelyAssignment() bool {
	return p.IsInTheMoney() &&
		p.DaysToExpiration() <= likelyAssignmentDays &&
		p.IntrinsicValue() >= p.in.Premium*likelyAssignmentRatio
}

// Delta approximates the short put's delta from moneyness and time.
func (p *CashSecuredPut) Delta() float64 {
	return greeks.ApproximateDelta(p.in.SharePrice, p.in.Strike, p.DaysToExpiration(), greeks.Put)
}

// Theta approximates the short put's daily time decay.
func (p *CashSecuredPut) Theta() float64 {
	return greeks.ApproximateTheta(p.in.Premium, p.DaysToExpiration())
}

// RiskFlags analyzes the current metrics and returns any detected risks.
func (p *CashSecuredPut) RiskFlags() []risk.Flag {
	return risk.Analyze(risk.Context{
		ReturnPercent:      p.ReturnOnOutlay(),
		Days:               p.DaysToExpiration(),
		CurrentPrice:       p.in.SharePrice,
		Breakeven:          p.Breakeven(),
		Expiration:         p.in.Expiration,
		ShortOption:        true,
		InTheMoney:         p.IsInTheMoney(),
		Intrinsic:          p.IntrinsicValue(),
		Premium:            p.in.Premium,
		LossBelowBreakeven: true,
		Thresholds:         p.thresholds,
	})
}

// PayoffChart returns expiration P&L across the given prices, or across a
// generated range around the current price when none are given.
func (p *CashSecuredPut) PayoffChart(prices ...float64) []ChartDataPoint {
	if len(prices) == 0 {
		prices = mathutil.GeneratePriceRange(p.in.SharePrice, defaultChartPoints, defaultChartStepPercent)
	}
	return payoffChart(prices, p.Breakeven(), shortPremiumBreakevenTolerance, p.ExpirationPnL)
}

// CashSecuredPutMetrics is a full snapshot of every computed metric.
type CashSecuredPutMetrics struct {
	Symbol           string            `json:"symbol"`
	Kind             Kind              `json:"kind"`
	Breakeven        float64           `json:"breakeven"`
	MaxProfit        float64           `json:"maxProfit"`
	MaxLoss          float64           `json:"maxLoss"`
	Collateral       float64           `json:"collateral"`
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

// Metrics aggregates every computed field into one snapshot, recomputed on
// every call.
func (p *CashSecuredPut) Metrics() CashSecuredPutMetrics {
	return CashSecuredPutMetrics{
		Symbol:           p.in.Symbol,
		Kind:             p.Kind(),
		Breakeven:        p.Breakeven(),
		MaxProfit:        p.MaxProfit(),
		MaxLoss:          p.MaxLoss(),
		Collateral:       p.CollateralRequired(),
		ReturnOnOutlay:   p.ReturnOnOutlay(),
		ReturnOnRisk:     p.ReturnOnRisk(),
		Annualized:       p.AnnualizedReturns(),
		DaysToExpiration: p.DaysToExpiration(),
		InTheMoney:       p.IsInTheMoney(),
		IntrinsicValue:   p.IntrinsicValue(),
		LikelyAssignment: p.IsLikelyAssignment(),
		Delta:            p.Delta(),
		Theta:            p.Theta(),
		RiskFlags:        p.RiskFlags(),
	}
}
