// Package strategy provides per-strategy metric models for single-leg and
// covered option positions.
//
// Each model wraps a validated, immutable input record plus an as-of date.
// Construction validates once; every query method after that is a pure
// function of the stored inputs. Models are cheap throwaway values: build one
// per analysis, query it as often as needed, discard it. Instances share no
// mutable state, so concurrent use needs no coordination.
package strategy

import (
	"math"
	"time"

	"options-journal/internal/errors"
	"options-journal/internal/mathutil"
	"options-journal/internal/risk"
)

// ContractShareMultiplier is the standard option contract size in shares.
// Every contract-to-shares conversion goes through this constant.
const ContractShareMultiplier = 100

// Kind identifies a strategy variant. The journal stores these strings.
type Kind string

const (
	KindCoveredCall    Kind = "covered_call"
	KindCashSecuredPut Kind = "cash_secured_put"
	KindLongCall       Kind = "long_call"
	KindLongPut        Kind = "long_put"
)

// likelyAssignment parameters: an ITM short option is a likely assignment
// when expiry is at most likelyAssignmentDays away and intrinsic value has
// reached likelyAssignmentRatio of the premium collected. Both are policy
// constants.
const (
	likelyAssignmentDays  = 7
	likelyAssignmentRatio = 0.8
)

// Default payoff chart shape when the caller supplies no prices.
const (
	defaultChartPoints      = 21
	defaultChartStepPercent = 2.0
)

// Near-breakeven tolerance bands for payoff charts. The short-premium
// strategies use a coarser band than the long-option ones; the per-variant
// values are carried over as-is pending product clarification.
const (
	shortPremiumBreakevenTolerance = 0.5
	longOptionBreakevenTolerance   = 0.01
)

// ChartDataPoint is one point of an expiration payoff chart.
type ChartDataPoint struct {
	UnderlyingPrice float64 `json:"underlyingPrice"`
	ProfitLoss      float64 `json:"profitLoss"`
	IsNearBreakeven bool    `json:"isNearBreakeven"`
}

// AnnualizedReturns holds annualized versions of the period returns.
type AnnualizedReturns struct {
	ReturnOnOutlay float64 `json:"returnOnOutlay"`
	ReturnOnRisk   float64 `json:"returnOnRisk"`
}

// StrategyMetrics is the query surface every variant implements. All methods
// are total over a validated model: no errors, no panics, no mutation.
type StrategyMetrics interface {
	Kind() Kind
	Name() string
	Breakeven() float64
	MaxProfit() float64
	MaxLoss() float64
	DaysToExpiration() int
	ExpirationPnL(price float64) float64
	PayoffChart(prices ...float64) []ChartDataPoint
	RiskFlags() []risk.Flag
}

// resolveAsOf applies the default evaluation date. The as-of date is
// injectable through the input record so tests and replays stay
// deterministic.
func resolveAsOf(asOf time.Time) time.Time {
	if asOf.IsZero() {
		return time.Now()
	}
	return asOf
}

// resolveThresholds applies the default risk thresholds for a nil override.
func resolveThresholds(t *risk.Thresholds) risk.Thresholds {
	if t == nil {
		return risk.DefaultThresholds
	}
	return *t
}

// payoffChart maps prices through pnl and flags points within tolerance of
// the breakeven price. Malformed caller-supplied prices map to matching
// malformed outputs; nothing here validates them.
func payoffChart(prices []float64, breakeven, tolerance float64, pnl func(float64) float64) []ChartDataPoint {
	chart := make([]ChartDataPoint, 0, len(prices))
	for _, price := range prices {
		chart = append(chart, ChartDataPoint{
			UnderlyingPrice: price,
			ProfitLoss:      mathutil.RoundTo(pnl(price), 2),
			IsNearBreakeven: math.Abs(price-breakeven) <= tolerance,
		})
	}
	return chart
}

// Validation helpers. The field name doubles as the message subject so
// failures read like form errors ("share price must be positive").

func requirePositive(field string, value float64) error {
	if value <= 0 {
		return errors.NewValidationError(field, value, field+" must be positive")
	}
	return nil
}

func requirePositiveInt(field string, value int) error {
	if value <= 0 {
		return errors.NewValidationError(field, value, field+" must be positive")
	}
	return nil
}

func requireNonNegative(field string, value float64) error {
	if value < 0 {
		return errors.NewValidationError(field, value, field+" must not be negative")
	}
	return nil
}

func requireExpiresAfter(expiration, asOf time.Time) error {
	if !expiration.After(asOf) {
		return errors.NewValidationError("expiration", expiration.Format("2006-01-02"),
			"expiration must be after the evaluation date")
	}
	return nil
}
