// Package journal provides persistence for option positions and bridges
// stored positions to the strategy calculation models.
package journal

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"options-journal/internal/errors"
	"options-journal/internal/risk"
	"options-journal/internal/strategy"
)

// Status represents a position's lifecycle state.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Position is a journaled option position. Monetary amounts follow the
// strategy package conventions: Premium, Fee and CurrentPremium are
// position-level dollars, prices are per share.
type Position struct {
	ID             string        `json:"id"`
	Symbol         string        `json:"symbol"`
	Strategy       strategy.Kind `json:"strategy"`
	Strike         float64       `json:"strike"`
	Premium        float64       `json:"premium"`
	Fee            float64       `json:"fee"`
	ShareBasis     float64       `json:"shareBasis,omitempty"`  // covered call only
	CashSecured    float64       `json:"cashSecured,omitempty"` // cash-secured put only; 0 means derive
	CurrentPrice   float64       `json:"currentPrice"`
	CurrentPremium float64       `json:"currentPremium,omitempty"` // long options only
	Contracts      int           `json:"contracts"`
	OpenDate       time.Time     `json:"openDate"`
	Expiration     time.Time     `json:"expiration"`
	Status         Status        `json:"status"`
	ClosedPnL      float64       `json:"closedPnL,omitempty"`
	Notes          string        `json:"notes,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// BuildStrategy constructs the calculation model for a journaled position,
// evaluated as of the given date. Thresholds may be nil for defaults.
// Validation failures surface unchanged from the strategy constructors.
func BuildStrategy(p Position, asOf time.Time, thresholds *risk.Thresholds) (strategy.StrategyMetrics, error) {
	switch p.Strategy {
	case strategy.KindCoveredCall:
		return strategy.NewCoveredCall(strategy.CoveredCallInputs{
			Symbol:     p.Symbol,
			ShareBasis: p.ShareBasis,
			SharePrice: p.CurrentPrice,
			Strike:     p.Strike,
			Premium:    p.Premium,
			Fee:        p.Fee,
			Contracts:  p.Contracts,
			Expiration: p.Expiration,
			AsOf:       asOf,
			Thresholds: thresholds,
		})
	case strategy.KindCashSecuredPut:
		return strategy.NewCashSecuredPut(strategy.CashSecuredPutInputs{
			Symbol:      p.Symbol,
			Strike:      p.Strike,
			SharePrice:  p.CurrentPrice,
			Premium:     p.Premium,
			Fee:         p.Fee,
			CashSecured: p.CashSecured,
			Contracts:   p.Contracts,
			Expiration:  p.Expiration,
			AsOf:        asOf,
			Thresholds:  thresholds,
		})
	case strategy.KindLongCall:
		return strategy.NewLongCall(strategy.LongCallInputs{
			Symbol:         p.Symbol,
			Strike:         p.Strike,
			SharePrice:     p.CurrentPrice,
			Premium:        p.Premium,
			Fee:            p.Fee,
			CurrentPremium: p.CurrentPremium,
			Contracts:      p.Contracts,
			Expiration:     p.Expiration,
			AsOf:           asOf,
			Thresholds:     thresholds,
		})
	case strategy.KindLongPut:
		return strategy.NewLongPut(strategy.LongPutInputs{
			Symbol:         p.Symbol,
			Strike:         p.Strike,
			SharePrice:     p.CurrentPrice,
			Premium:        p.Premium,
			Fee:            p.Fee,
			CurrentPremium: p.CurrentPremium,
			Contracts:      p.Contracts,
			Expiration:     p.Expiration,
			AsOf:           asOf,
			Thresholds:     thresholds,
		})
	default:
		return nil, errors.Wrapf(errors.ErrUnsupportedStrategy, "strategy %q", p.Strategy)
	}
}

// NewPositionID generates a readable unique ID for a new position,
// e.g. "AAPL-covered_call-20240115-a3f2".
func NewPositionID(symbol string, kind strategy.Kind, openDate time.Time) string {
	buf := make([]byte, 2)
	rand.Read(buf)
	return fmt.Sprintf("%s-%s-%s-%s",
		strings.ToUpper(symbol), kind, openDate.Format("20060102"), hex.EncodeToString(buf))
}

// ParseKind maps a stored or imported strategy string to a strategy kind.
func ParseKind(s string) (strategy.Kind, error) {
	switch strategy.Kind(s) {
	case strategy.KindCoveredCall, strategy.KindCashSecuredPut, strategy.KindLongCall, strategy.KindLongPut:
		return strategy.Kind(s), nil
	default:
		return "", errors.Wrapf(errors.ErrUnsupportedStrategy, "strategy %q", s)
	}
}
